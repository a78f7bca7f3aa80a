package coursewatch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/notify"
	"seatwatch-backend/lib/scrapers/globalsearch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

type PollerOptions struct {
	// Concurrency caps how many courses are fetched at once, defaults to 5.
	Concurrency int
	// IdleInterval is how long to wait before checking again when nothing is
	// tracked, defaults to one minute.
	IdleInterval time.Duration
	// The delay between cycles is picked uniformly from
	// [MinCycleDelay, MaxCycleDelay], defaults to 3 to 8 seconds.
	MinCycleDelay time.Duration
	MaxCycleDelay time.Duration
	// MaxJitter is the largest random delay before each fetch, defaults to
	// 1.5 seconds. A negative value disables jitter.
	MaxJitter time.Duration
	Policy    TransitionPolicy
}

func (o *PollerOptions) setDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 5
	}
	if o.IdleInterval <= 0 {
		o.IdleInterval = time.Minute
	}
	if o.MinCycleDelay <= 0 {
		o.MinCycleDelay = 3 * time.Second
	}
	if o.MaxCycleDelay < o.MinCycleDelay {
		o.MaxCycleDelay = o.MinCycleDelay + 5*time.Second
	}
	if o.MaxJitter == 0 {
		o.MaxJitter = 1500 * time.Millisecond
	} else if o.MaxJitter < 0 {
		o.MaxJitter = 0
	}
}

// CycleReport summarizes one poll cycle.
type CycleReport struct {
	Tracked  int
	Updated  int
	Failed   int
	Notified int
}

// Poller repeatedly scrapes every tracked course, stores its availability and
// tells subscribers about interesting status changes.
type Poller struct {
	store      coursestore.Store
	source     Source
	dispatcher notify.Dispatcher
	opts       PollerOptions
	metrics    pollerMetrics
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewPoller(store coursestore.Store, source Source, dispatcher notify.Dispatcher, opts PollerOptions) (*Poller, error) {
	opts.setDefaults()
	metrics, err := newPollerMetrics()
	if err != nil {
		return nil, err
	}
	return &Poller{
		store:      store,
		source:     source,
		dispatcher: dispatcher,
		opts:       opts,
		metrics:    metrics,
		sleep:      sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	for {
		report, err := p.PollOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.WarnContext(ctx, "poll cycle", "err", err)
		}

		delay := randomBetween(p.opts.MinCycleDelay, p.opts.MaxCycleDelay)
		if err == nil && report.Tracked == 0 {
			delay = p.opts.IdleInterval
		}
		err = p.sleep(ctx, delay)
		if err != nil {
			return err
		}
	}
}

type cycleCounters struct {
	updated  atomic.Int64
	failed   atomic.Int64
	notified atomic.Int64
	refresh  atomic.Bool
}

// PollOnce runs a single cycle over every tracked course. A course that fails
// to scrape or store is logged and skipped, the returned error is only set
// when the cycle could not run at all.
func (p *Poller) PollOnce(ctx context.Context) (CycleReport, error) {
	ctx, span := tracer.Start(ctx, "PollOnce")
	defer span.End()

	identities, err := p.store.ListIdentities(ctx)
	if err != nil {
		return CycleReport{}, err
	}
	report := CycleReport{Tracked: len(identities)}
	p.metrics.tracked.Record(ctx, int64(len(identities)))
	if len(identities) == 0 {
		return report, nil
	}

	session, err := p.source.Session(ctx)
	if err != nil {
		return report, err
	}

	var counters cycleCounters
	var group errgroup.Group
	group.SetLimit(p.opts.Concurrency)
	for _, identity := range identities {
		group.Go(func() error {
			p.pollCourse(ctx, session, identity, &counters)
			return nil
		})
	}
	group.Wait()

	if counters.refresh.Load() && ctx.Err() == nil {
		_, err := p.source.RefreshSession(ctx, session)
		if err != nil {
			slog.WarnContext(ctx, "refresh session", "err", err)
		}
	}

	report.Updated = int(counters.updated.Load())
	report.Failed = int(counters.failed.Load())
	report.Notified = int(counters.notified.Load())
	p.metrics.cycles.Add(ctx, 1)
	span.SetAttributes(
		attribute.Int("tracked", report.Tracked),
		attribute.Int("updated", report.Updated),
		attribute.Int("failed", report.Failed),
		attribute.Int("notified", report.Notified),
	)
	return report, ctx.Err()
}

func (p *Poller) pollCourse(ctx context.Context, session *globalsearch.Session, identity coursestore.Identity, counters *cycleCounters) {
	if p.opts.MaxJitter > 0 {
		err := p.sleep(ctx, rand.N(p.opts.MaxJitter))
		if err != nil {
			return
		}
	}

	course, err := p.source.Scrape(ctx, session, identity.Encoded)
	if err == nil {
		err = globalsearch.CheckCourseNumber(identity.Query, course.Details)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.WarnContext(
			ctx, "scrape tracked course",
			"uid", identity.Uid,
			"query", identity.Query.String(),
			"err", err,
		)
		counters.failed.Add(1)
		counters.refresh.Store(true)
		p.metrics.fetchFailures.Add(ctx, 1)
		return
	}

	previous, existed, err := p.store.UpdateAvailability(ctx, identity.Uid, course.Availability)
	if errors.Is(err, coursestore.ErrNotFound) {
		slog.DebugContext(ctx, "course removed while polling", "uid", identity.Uid)
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "update availability", "uid", identity.Uid, "err", err)
		counters.failed.Add(1)
		return
	}
	counters.updated.Add(1)

	current := course.Availability.Status
	if !current.Known() {
		slog.WarnContext(ctx, "unknown course status", "uid", identity.Uid, "status", current)
	}
	if !existed || !p.opts.Policy.Interesting(previous, current) {
		return
	}
	slog.InfoContext(
		ctx, "course status changed",
		"uid", identity.Uid,
		"course_number", course.Details.CourseNumber,
		"previous", previous,
		"current", current,
	)
	p.notifySubscribers(ctx, identity.Uid, course.Details, previous, current, counters)
}

func (p *Poller) notifySubscribers(
	ctx context.Context,
	uid int64,
	details globalsearch.CourseDetails,
	previous, current globalsearch.Status,
	counters *cycleCounters,
) {
	subscribers, err := p.store.ListSubscribers(ctx, uid)
	if err != nil {
		slog.WarnContext(ctx, "list subscribers", "uid", uid, "err", err)
		return
	}
	message := AnsiBlock(FormatStatusChange(details, previous, current))
	for _, sub := range subscribers {
		err := p.dispatcher.Dispatch(ctx, notify.Notification{
			SubscriberID: sub.SubscriberID,
			ChannelID:    sub.ChannelID,
			CourseNumber: details.CourseNumber,
			CourseName:   details.CourseName,
			Previous:     previous,
			Current:      current,
			Message:      message,
		})
		if err != nil {
			slog.WarnContext(
				ctx, "dispatch notification",
				"uid", uid,
				"subscriber", sub.SubscriberID,
				"err", err,
			)
			continue
		}
		counters.notified.Add(1)
		p.metrics.notifications.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", string(current)),
		))
	}
}
