package main

import (
	"fmt"
	"net/http"

	"github.com/qurandl/qurandl/internal/app"
	"github.com/qurandl/qurandl/internal/catalogue"
	"github.com/qurandl/qurandl/internal/engine"
	"github.com/qurandl/qurandl/internal/fetch"
	"github.com/qurandl/qurandl/internal/infra/config"
	"github.com/qurandl/qurandl/internal/infra/logger"
	"github.com/qurandl/qurandl/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	flagOutput  string
	flagWorkers int
	flagRetries int
	flagTimeout int
	flagVerbose bool

	appCtx *app.Context

	// concrete orchestrator handle, kept for the progress hook
	orch *engine.Orchestrator
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "qurandl",
		Short:        "Download Quran recitations from quranicaudio.com",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config.yaml")
	pf.StringVarP(&flagOutput, "output", "o", "", "output directory (overrides config)")
	pf.IntVarP(&flagWorkers, "workers", "w", 0, "parallel downloads (overrides config)")
	pf.IntVar(&flagRetries, "retries", 0, "max attempts per surah (overrides config)")
	pf.IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds (overrides config)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log to stdout as well")

	root.AddCommand(newListCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newPresetCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// initApp loads config, applies flag overrides, and wires the services the
// commands share.
func initApp() error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if flagOutput != "" {
		cfg.Download.OutDir = flagOutput
	}
	if flagWorkers > 0 {
		cfg.Download.Workers = flagWorkers
	}
	if flagRetries > 0 {
		cfg.Download.MaxRetries = flagRetries
	}
	if flagTimeout > 0 {
		cfg.Download.TimeoutSeconds = flagTimeout
	}
	if flagVerbose {
		cfg.Log.IncludeStdout = true
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}

	appCtx = app.NewContext(cfg, log)

	httpc := &http.Client{Timeout: cfg.Download.Timeout()}
	appCtx.Catalogue = catalogue.NewClient(cfg.Catalogue.URL, cfg.Catalogue.CacheTTL(), httpc, log)

	fetcher := fetch.NewFetcher(cfg.Download.BaseURL, httpc, log, cfg.Download.MaxRetries, fetchBackoff)
	orch = engine.New(fetcher, log, cfg.Download.Workers)
	appCtx.Engine = orch

	st, err := store.New(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("store error: %w", err)
	}
	appCtx.Store = st

	return nil
}
