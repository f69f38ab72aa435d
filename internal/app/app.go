package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/five82/folio/internal/api"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/store"
	"github.com/five82/folio/internal/ui"
)

// Options configure a folio process.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/folio/prefs.toml
	Overrides  config.Overrides
	Version    string

	// Interactive sends logs to the configured file instead of Console.
	Interactive bool
	Console     io.Writer
}

// Runtime is everything built from configuration: the logger, the API client
// and the single set of stores.
type Runtime struct {
	Config   config.Config
	Logger   zerolog.Logger
	Client   *api.Client
	Stores   *store.Set
	Registry *prometheus.Registry

	closeLog func() error
}

// Bootstrap loads configuration and builds the runtime. Callers must Close it.
func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts.Overrides.Apply(&cfg)

	logOpts := logging.Options{Level: cfg.LogLevel, Console: opts.Console, Version: opts.Version}
	if opts.Interactive {
		logOpts.File = cfg.LogFile
	}
	if logOpts.Console == nil {
		logOpts.Console = os.Stderr
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithUserAgent("folio/"+versionOr(opts.Version)),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	stores := store.NewSet(client, store.Options{
		Logger:  logging.Component(logger, "store"),
		Metrics: store.NewMetrics(registry),
	})

	logger.Debug().
		Str("api_url", client.BaseURL()).
		Dur("timeout", cfg.Timeout).
		Dur("poll", cfg.PollInterval).
		Msg("runtime ready")

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Stores:   stores,
		Registry: registry,
		closeLog: closeLog,
	}, nil
}

// Close releases the log file.
func (r *Runtime) Close() error {
	if r == nil || r.closeLog == nil {
		return nil
	}
	return r.closeLog()
}

// Run boots the folio TUI until the user quits or ctx is cancelled. startPath
// selects the initial view; empty restores the last one from prefs.
func Run(ctx context.Context, opts Options, startPath string) error {
	opts.Interactive = true
	rt, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		rt.Logger.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if addr := rt.Config.MetricsAddr; addr != "" {
		stop := ServeMetrics(ctx, addr, rt.Registry, logging.Component(rt.Logger, "metrics"))
		defer stop()
	}

	// The first poll fires immediately, so views open already loading.
	StartPoller(ctx, rt.Stores, rt.Config.PollInterval, logging.Component(rt.Logger, "poller"))

	if startPath == "" {
		startPath = userPrefs.LastPath
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Stores:    rt.Stores,
		Logger:    logging.Component(rt.Logger, "ui"),
		LogFile:   rt.Config.LogFile,
		APIURL:    rt.Client.BaseURL(),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		StartPath: startPath,
	})
}

func versionOr(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}
