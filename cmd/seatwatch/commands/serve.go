package commands

import (
	"context"
	"log/slog"
	"time"

	"seatwatch-backend/internal/chrono"
	"seatwatch-backend/lib/notify"
	"seatwatch-backend/lib/restyutil"
	"seatwatch-backend/lib/serviceutil"
	"seatwatch-backend/lib/telemetry"
	"seatwatch-backend/services/coursewatch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Polls every tracked course and notifies subscribers of status changes.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "seatwatch")
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
		defer func() {
			err := tel.Shutdown(context.Background())
			if err != nil {
				slog.Warn("shutdown telemetry", "err", err)
			}
		}()
		telemetry.InstrumentPerfStats(ctx)

		a, err := openApp()
		if err != nil {
			serviceutil.Fatal("init seatwatch", err)
		}
		defer a.Close()

		if verbose {
			out, err := restyutil.NewFilesystemOutput("<dev_state>/resty/notify")
			if err != nil {
				serviceutil.Fatal("init resty output", err)
			}
			notify.SetRestyInstrumentOutput(out)
		}
		dispatcher, err := a.cfg.dispatcher()
		if err != nil {
			serviceutil.Fatal("init notifications", err)
		}

		poller, err := coursewatch.NewPoller(a.store, a.scraper, dispatcher, a.cfg.Poller.PollerOptions())
		if err != nil {
			serviceutil.Fatal("init poller", err)
		}

		cron := chrono.NewCron()
		err = cron.Add(a.cfg.SessionRefreshCron, func() {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			_, err := a.scraper.RefreshSession(ctx, nil)
			if err != nil {
				slog.WarnContext(ctx, "scheduled session refresh", "err", err)
			}
		})
		if err != nil {
			serviceutil.Fatal("schedule session refresh", err)
		}
		go cron.Run(ctx)

		slog.InfoContext(ctx, "polling tracked courses", "database", a.cfg.Database)
		err = poller.Run(ctx)
		if err != nil && ctx.Err() == nil {
			serviceutil.Fatal("poll", err)
		}
		slog.InfoContext(ctx, "shutting down")
	},
}
