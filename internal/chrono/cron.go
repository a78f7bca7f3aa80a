package chrono

import (
	"context"
	"fmt"
	"log/slog"

	"seatwatch-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

// Cron runs callbacks on cron schedules evaluated in New York time.
type Cron struct {
	cron *cron.Cron
}

func NewCron() Cron {
	return Cron{
		cron: cron.New(
			cron.WithLogger(cronLogger{}),
			cron.WithLocation(timezone.Location),
		),
	}
}

func (c Cron) Add(spec string, callback func()) error {
	_, err := c.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// Run starts the scheduler and stops it once ctx is cancelled, waiting for
// running callbacks to return.
func (c Cron) Run(ctx context.Context) {
	c.cron.Start()
	<-ctx.Done()
	<-c.cron.Stop().Done()
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(fmt.Sprintf("cron: %s", msg), keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(fmt.Sprintf("cron: %s", msg), append(keysAndValues, "err", err)...)
}
