package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpTransport "github.com/naka-gawa/merged-prs/internal/transport/http"
	"github.com/naka-gawa/merged-prs/internal/transport/http/handler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the interactive dashboard over HTTP",
	Long:  `Starts a web dashboard with a form for the organization, date range and breakdown toggle, and renders the result as text and a bar chart.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		cfg := mustLoadConfig(cmd)
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		dashboardHandler := handler.NewDashboardHandler(newRunner(cfg, cfg.API, logger), cfg.Token, cfg.DefaultOrg, logger)
		router := httpTransport.NewRouter(httpTransport.RouterConfig{
			DashboardHandler: dashboardHandler,
			HealthHandler:    handler.NewHealthHandler(),
		})
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			fmt.Fprintf(os.Stderr, "Dashboard listening on %s\n", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-egCtx.Done()
			logger.Println("Shutting down dashboard...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := eg.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Dashboard stopped: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8501", "Address to listen on (default from MERGED_PRS_HTTP_ADDR)")
}
