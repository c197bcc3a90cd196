package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/merged-prs/internal/domain"
	"github.com/naka-gawa/merged-prs/internal/presenter"
	"github.com/naka-gawa/merged-prs/internal/usecase"
)

// countRunner is the part of usecase.Runner the count command needs.
type countRunner interface {
	Run(ctx context.Context, q domain.Query, token string, progress usecase.ProgressFunc) (*domain.Result, error)
}

type countOptions struct {
	Org       string
	From      string
	To        string
	Breakdown bool
	Output    string
	ChartHTML string
	Token     string
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Counts merged pull requests and prints them",
	Long: `Counts the pull requests merged in an organization between two dates (inclusive, as
interpreted by the GitHub search API). With --breakdown every repository is searched in
turn and a horizontal bar chart is printed; --chart-html additionally writes it as HTML.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := mustLoadConfig(cmd)

		opts := countOptions{Token: cfg.Token}
		opts.Org, _ = cmd.Flags().GetString("org")
		if opts.Org == "" {
			opts.Org = cfg.DefaultOrg
		}
		opts.From, _ = cmd.Flags().GetString("from")
		opts.To, _ = cmd.Flags().GetString("to")
		opts.Breakdown, _ = cmd.Flags().GetBool("breakdown")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.ChartHTML, _ = cmd.Flags().GetString("chart-html")
		api := cfg.API
		if cmd.Flags().Changed("api") {
			api, _ = cmd.Flags().GetString("api")
		}

		err := runCount(ctx, newRunner(cfg, api, logger), opts, time.Now(), os.Stdout, os.Stderr)
		switch {
		case errors.Is(err, domain.ErrMissingInput):
			fmt.Fprintln(os.Stderr, "Warning: Please provide the organization name and access token.")
			os.Exit(1)
		case err != nil:
			fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().StringP("org", "o", "", "GitHub organization name (default from MERGED_PRS_DEFAULT_ORG)")
	countCmd.Flags().String("from", "", "Start date, YYYY-MM-DD (default January 1st of this year)")
	countCmd.Flags().String("to", "", "End date, YYYY-MM-DD (default today)")
	countCmd.Flags().Bool("breakdown", true, "Break down by repository")
	countCmd.Flags().String("api", "rest", "GitHub API to query: rest or graphql")
	countCmd.Flags().String("output", "text", "Output format: text or json")
	countCmd.Flags().String("chart-html", "", "Write the per-repository chart as HTML to this file")
}

func runCount(ctx context.Context, runner countRunner, opts countOptions, now time.Time, stdout, stderr io.Writer) error {
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q, expected text or json", opts.Output)
	}

	q := domain.Query{Org: opts.Org, Breakdown: opts.Breakdown}
	q.From, q.To = domain.DefaultRange(now)
	var err error
	if opts.From != "" {
		if q.From, err = domain.ParseDate(opts.From); err != nil {
			return err
		}
	}
	if opts.To != "" {
		if q.To, err = domain.ParseDate(opts.To); err != nil {
			return err
		}
	}

	var progress *presenter.Progress
	var report usecase.ProgressFunc
	if q.Breakdown {
		progress = presenter.NewProgress(stderr)
		report = progress.Report
	}

	result, err := runner.Run(ctx, q, opts.Token, report)
	if err != nil {
		return err
	}
	if progress != nil {
		progress.Done()
	}

	if opts.Output == "json" {
		err = presenter.WriteJSON(stdout, result)
	} else {
		err = presenter.WriteText(stdout, result)
	}
	if err != nil {
		return err
	}

	if opts.ChartHTML != "" && result.Breakdown {
		return writeChartFile(opts.ChartHTML, presenter.BuildChart(result))
	}
	return nil
}

func writeChartFile(path string, spec presenter.ChartSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := presenter.WriteHTMLChart(f, spec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
