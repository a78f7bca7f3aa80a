package coursewatch

import (
	"seatwatch-backend/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("seatwatch.services.coursewatch")
var meter = telemetry.Meter("seatwatch.services.coursewatch")

type pollerMetrics struct {
	cycles        metric.Int64Counter
	fetchFailures metric.Int64Counter
	notifications metric.Int64Counter
	tracked       metric.Int64Gauge
}

func newPollerMetrics() (pollerMetrics, error) {
	cycles, err := meter.Int64Counter(
		"coursewatch_poll_cycles_total",
		metric.WithDescription("The total amount of completed poll cycles."),
	)
	if err != nil {
		return pollerMetrics{}, err
	}
	fetchFailures, err := meter.Int64Counter(
		"coursewatch_fetch_failures_total",
		metric.WithDescription("The total amount of courses that could not be scraped."),
	)
	if err != nil {
		return pollerMetrics{}, err
	}
	notifications, err := meter.Int64Counter(
		"coursewatch_notifications_total",
		metric.WithDescription("The total amount of status change notifications sent."),
	)
	if err != nil {
		return pollerMetrics{}, err
	}
	tracked, err := meter.Int64Gauge(
		"coursewatch_tracked_courses",
		metric.WithDescription("The amount of courses polled in the last cycle."),
	)
	if err != nil {
		return pollerMetrics{}, err
	}
	return pollerMetrics{
		cycles:        cycles,
		fetchFailures: fetchFailures,
		notifications: notifications,
		tracked:       tracked,
	}, nil
}
