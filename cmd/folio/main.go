// Package main is the entry point for the folio portfolio client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/app"
	"github.com/five82/folio/internal/config"
)

// Version information set at build time.
var version = "dev"

// Global flags.
var (
	configPath  string
	prefsPath   string
	apiURL      string
	logFile     string
	logLevel    string
	metricsAddr string
	timeout     time.Duration
	pollEvery   time.Duration
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio [path]",
		Short: "Terminal client for a personal portfolio backend",
		Long: `folio shows holdings, securities and transactions served by a portfolio
backend and records new transactions. Without a subcommand it opens the
interactive UI, optionally at a route such as /instrument/AAPL.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/folio/config.toml)")
	root.PersistentFlags().StringVar(&prefsPath, "prefs", "", "Path to UI preferences (default ~/.config/folio/prefs.toml)")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file used by the interactive UI")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the UI runs")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout per request")
	root.PersistentFlags().DurationVar(&pollEvery, "poll", 0, "Background refresh interval")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newUICmd())
	root.AddCommand(newPortfolioCmd())
	root.AddCommand(newSecuritiesCmd())
	root.AddCommand(newTransactionsCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newAddTransactionCmd())
	root.AddCommand(newRoutesCmd())

	return root
}

// options builds app options from the global flags.
func options(cmd *cobra.Command) app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		Version:    version,
		Console:    cmd.ErrOrStderr(),
		Overrides: config.Overrides{
			APIURL:       apiURL,
			Timeout:      timeout,
			PollInterval: pollEvery,
			LogFile:      logFile,
			LogLevel:     logLevel,
			MetricsAddr:  metricsAddr,
		},
	}
}

// bootstrap builds a non-interactive runtime that logs to stderr.
func bootstrap(cmd *cobra.Command) (*app.Runtime, error) {
	return app.Bootstrap(options(cmd))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
