// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/merged-prs/internal/config"
	"github.com/naka-gawa/merged-prs/internal/gateway"
	"github.com/naka-gawa/merged-prs/internal/retry"
	"github.com/naka-gawa/merged-prs/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "merged-prs",
	Short: "Counts merged pull requests of a GitHub organization.",
	Long: `merged-prs counts the pull requests merged in a GitHub organization
within a date range, optionally broken down per repository, and shows the
result as a table and a horizontal bar chart, either in the terminal or in
a small web dashboard.

The access token is read from GITHUB_ACCESS_TOKEN (or GITHUB_TOKEN), falling
back to the GITHUB_ACCESS_TOKEN key of the secrets file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("secrets", config.DefaultSecretsPath, "Path to the TOML secrets file")
}

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func mustLoadConfig(cmd *cobra.Command) *config.Config {
	secrets, _ := cmd.Flags().GetString("secrets")
	cfg, err := config.Load(secrets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newRunner wires a GitHub session of the requested API flavour into the counting use case.
func newRunner(cfg *config.Config, api string, logger *log.Logger) *usecase.Runner {
	open := func(token string) (usecase.Session, error) {
		session, err := gateway.Open(token, gateway.Options{
			API:            api,
			BaseURL:        cfg.BaseURL,
			RateLimitSleep: cfg.RateLimitSleep,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	policy := retry.Default(gateway.IsTransient)
	policy.Attempts = cfg.RetryAttempts
	policy.Interval = cfg.RetryInterval
	return usecase.NewRunner(open, policy, logger)
}
