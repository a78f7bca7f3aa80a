package coursewatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/notify"
	"seatwatch-backend/lib/scrapers/globalsearch"

	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mutex    sync.Mutex
	received []notify.Notification
	failFor  string
}

func (r *recordingDispatcher) Dispatch(ctx context.Context, n notify.Notification) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if n.SubscriberID == r.failFor {
		return errors.New("channel is gone")
	}
	r.received = append(r.received, n)
	return nil
}

func (r *recordingDispatcher) take() []notify.Notification {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	received := r.received
	r.received = nil
	return received
}

func newTestPoller(t testing.TB, store coursestore.Store, source Source, dispatcher notify.Dispatcher, opts PollerOptions) *Poller {
	poller, err := NewPoller(store, source, dispatcher, opts)
	require.NoError(t, err)
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	return poller
}

func track(t testing.TB, service Service, courseNumber int, subscribers ...string) {
	for _, sub := range subscribers {
		_, err := service.AddTrackedCourse(
			context.Background(),
			globalsearch.QueryOptions{CourseNumber: courseNumber},
			sub, "channel-"+sub,
		)
		require.NoError(t, err)
	}
}

func TestPollOnceNotifiesOpenedCourse(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	dispatcher := &recordingDispatcher{}
	poller := newTestPoller(t, store, source, dispatcher, PollerOptions{})

	source.set(12345, globalsearch.StatusClosed)
	track(t, service, 12345, "alice", "bob")

	source.set(12345, globalsearch.StatusOpen)
	report, err := poller.PollOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, CycleReport{Tracked: 1, Updated: 1, Notified: 2}, report)

	received := dispatcher.take()
	require.Len(t, received, 2)
	subscribers := []string{}
	for _, n := range received {
		subscribers = append(subscribers, n.SubscriberID)
		require.Equal(t, "channel-"+n.SubscriberID, n.ChannelID)
		require.Equal(t, "12345", n.CourseNumber)
		require.Equal(t, globalsearch.StatusClosed, n.Previous)
		require.Equal(t, globalsearch.StatusOpen, n.Current)
		require.True(t, strings.HasPrefix(n.Message, "```ansi\n"))
		require.Contains(t, n.Message, "Intro to Systems")
	}
	require.ElementsMatch(t, []string{"alice", "bob"}, subscribers)

	avail, err := service.GetAvailability(ctx, globalsearch.QueryOptions{CourseNumber: 12345})
	require.NoError(t, err)
	require.Equal(t, globalsearch.StatusOpen, avail.Status)

	// still open, nothing to tell anyone
	report, err = poller.PollOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, CycleReport{Tracked: 1, Updated: 1}, report)
	require.Empty(t, dispatcher.take())
}

func TestPollOnceIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	dispatcher := &recordingDispatcher{}
	poller := newTestPoller(t, store, source, dispatcher, PollerOptions{Concurrency: 2})

	for _, n := range []int{11111, 22222, 33333, 44444} {
		source.set(n, globalsearch.StatusClosed)
		track(t, service, n, "alice")
	}
	source.fail(22222, &globalsearch.TransportError{Op: "fetch", StatusCode: 500})
	source.fail(33333, &globalsearch.TransportError{Op: "fetch", StatusCode: 500})
	source.setCourse(44444, testCourse(11111, globalsearch.StatusOpen))
	source.set(11111, globalsearch.StatusOpen)

	report, err := poller.PollOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, CycleReport{Tracked: 4, Updated: 1, Failed: 3, Notified: 1}, report)
	// three failures against one session cause a single refresh
	require.Equal(t, int32(1), source.refreshes.Load())

	for _, n := range []int{22222, 33333, 44444} {
		avail, err := service.GetAvailability(ctx, globalsearch.QueryOptions{CourseNumber: n})
		require.NoError(t, err)
		require.Equal(t, globalsearch.StatusClosed, avail.Status)
	}
	received := dispatcher.take()
	require.Len(t, received, 1)
	require.Equal(t, "11111", received[0].CourseNumber)
}

func TestPollOnceWithoutFailuresKeepsSession(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	poller := newTestPoller(t, store, source, notify.LogDispatcher{}, PollerOptions{})

	source.set(12345, globalsearch.StatusClosed)
	track(t, service, 12345, "alice")

	_, err := poller.PollOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, source.refreshes.Load())
}

func TestPollOnceDispatchFailure(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	dispatcher := &recordingDispatcher{failFor: "alice"}
	poller := newTestPoller(t, store, source, dispatcher, PollerOptions{})

	source.set(12345, globalsearch.StatusOpen)
	track(t, service, 12345, "alice", "bob")
	source.set(12345, globalsearch.StatusClosed)

	report, err := poller.PollOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Notified)
	received := dispatcher.take()
	require.Len(t, received, 1)
	require.Equal(t, "bob", received[0].SubscriberID)
	require.Equal(t, globalsearch.StatusOpen, received[0].Previous)
}

func TestPollOnceWaitList(t *testing.T) {
	cases := []struct {
		name     string
		policy   TransitionPolicy
		notified int
	}{
		{name: "default", policy: TransitionPolicy{}, notified: 0},
		{name: "notify wait list", policy: TransitionPolicy{NotifyWaitList: true}, notified: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			service, store, source := newTestService(t)
			dispatcher := &recordingDispatcher{}
			poller := newTestPoller(t, store, source, dispatcher, PollerOptions{Policy: tc.policy})

			source.set(12345, globalsearch.StatusClosed)
			track(t, service, 12345, "alice")
			source.set(12345, globalsearch.StatusWaitList)

			report, err := poller.PollOnce(ctx)
			require.NoError(t, err)
			require.Equal(t, tc.notified, report.Notified)
			require.Len(t, dispatcher.take(), tc.notified)
		})
	}
}

func TestPollOnceIdle(t *testing.T) {
	_, store, source := newTestService(t)
	poller := newTestPoller(t, store, source, notify.LogDispatcher{}, PollerOptions{})

	report, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleReport{}, report)
	require.Zero(t, source.scrapes.Load())
}

type slowSource struct {
	*fakeSource
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (s *slowSource) Scrape(ctx context.Context, session *globalsearch.Session, enc globalsearch.EncodedQuery) (globalsearch.Course, error) {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxInFlight.Load()
		if current <= max || s.maxInFlight.CompareAndSwap(max, current) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return s.fakeSource.Scrape(ctx, session, enc)
}

func TestPollOnceConcurrencyLimit(t *testing.T) {
	service, store, source := newTestService(t)
	for n := 10001; n <= 10012; n++ {
		source.set(n, globalsearch.StatusClosed)
		track(t, service, n, "alice")
	}

	slow := &slowSource{fakeSource: source}
	poller := newTestPoller(t, store, slow, notify.LogDispatcher{}, PollerOptions{Concurrency: 3})

	report, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, report.Updated)
	require.LessOrEqual(t, slow.maxInFlight.Load(), int32(3))
	require.Greater(t, slow.maxInFlight.Load(), int32(1))
}

func TestRunSleepsBetweenCycles(t *testing.T) {
	service, store, source := newTestService(t)
	poller := newTestPoller(t, store, source, notify.LogDispatcher{}, PollerOptions{
		IdleInterval:  time.Minute,
		MinCycleDelay: 3 * time.Second,
		MaxCycleDelay: 8 * time.Second,
		MaxJitter:     -1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delays []time.Duration
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		if len(delays) == 1 {
			// the first cycle found nothing, start tracking before the next
			source.set(12345, globalsearch.StatusClosed)
			track(t, service, 12345, "alice")
			return nil
		}
		cancel()
		return ctx.Err()
	}

	err := poller.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, delays, 2)
	require.Equal(t, time.Minute, delays[0])
	require.GreaterOrEqual(t, delays[1], 3*time.Second)
	require.LessOrEqual(t, delays[1], 8*time.Second)
}

func TestPollOnceJittersEachFetch(t *testing.T) {
	service, store, source := newTestService(t)
	poller := newTestPoller(t, store, source, notify.LogDispatcher{}, PollerOptions{})
	require.Equal(t, 1500*time.Millisecond, poller.opts.MaxJitter)

	source.set(12345, globalsearch.StatusClosed)
	source.set(23456, globalsearch.StatusClosed)
	track(t, service, 12345, "alice")
	track(t, service, 23456, "alice")

	var mutex sync.Mutex
	var delays []time.Duration
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		mutex.Lock()
		delays = append(delays, d)
		mutex.Unlock()
		return nil
	}

	report, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Updated)
	require.Len(t, delays, 2)
	for _, d := range delays {
		require.GreaterOrEqual(t, d, time.Duration(0))
		require.Less(t, d, 1500*time.Millisecond)
	}

	poller = newTestPoller(t, store, source, notify.LogDispatcher{}, PollerOptions{MaxJitter: -1})
	require.Zero(t, poller.opts.MaxJitter)
}
