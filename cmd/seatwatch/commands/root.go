package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"seatwatch-backend/lib/configutil"
	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/restyutil"
	"seatwatch-backend/lib/scrapers/globalsearch"
	"seatwatch-backend/lib/telemetry"
	"seatwatch-backend/services/coursewatch"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "seatwatch",
	Short:         "seatwatch tracks CUNY Global Search course seats and notifies subscribers when they open up.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		if verbose {
			slog.Debug("verbose logging enabled")
		}
		return configutil.LoadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, coursewatch.UserMessage(err))
		os.Exit(1)
	}
}

// app is everything a command needs, built from the config.
type app struct {
	cfg     Config
	store   coursestore.Store
	scraper *globalsearch.Scraper
	service coursewatch.Service
}

func (a app) Close() error {
	return a.store.Close()
}

func openApp() (app, error) {
	cfg, err := readConfig(configPath)
	if err != nil {
		return app{}, fmt.Errorf("read config: %w", err)
	}

	if verbose {
		out, err := restyutil.NewFilesystemOutput("<dev_state>/resty/globalsearch")
		if err != nil {
			return app{}, err
		}
		globalsearch.SetRestyInstrumentOutput(out)
	}

	store, err := coursestore.Open(cfg.Database)
	if err != nil {
		return app{}, err
	}
	scraper, err := globalsearch.NewScraper(cfg.GlobalSearch.ClientOptions())
	if err != nil {
		store.Close()
		return app{}, err
	}
	return app{
		cfg:     cfg,
		store:   store,
		scraper: scraper,
		service: coursewatch.NewService(coursewatch.ServiceOptions{
			Store:  store,
			Source: scraper,
		}),
	}, nil
}
