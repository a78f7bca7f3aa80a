package coursewatch

import (
	"context"
	"encoding/base64"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/scrapers/globalsearch"
	"seatwatch-backend/lib/testutil"
	"seatwatch-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, timezone.Location)

func testNowFunc() time.Time {
	return testNow
}

func testCourse(courseNumber int, status globalsearch.Status) globalsearch.Course {
	seats := "0"
	if status == globalsearch.StatusOpen {
		seats = "2"
	}
	return globalsearch.Course{
		Details: globalsearch.CourseDetails{
			CourseNumber: strconv.Itoa(courseNumber),
			CourseName:   "Intro to Systems",
			DaysAndTimes: "MoWe 9:15AM - 10:30AM",
			Room:         "Science Bldg B135",
			Instructor:   "Ada Lovelace",
			MeetingDates: "08/25/2026 - 12/22/2026",
		},
		Availability: globalsearch.CourseAvailability{
			Status:              status,
			CourseCapacity:      "30",
			WaitlistCapacity:    "5",
			CurrentlyEnrolled:   "28",
			CurrentlyWaitlisted: "1",
			AvailableSeats:      seats,
		},
	}
}

// fakeSource serves courses keyed by course number.
type fakeSource struct {
	mutex   sync.Mutex
	courses map[int]globalsearch.Course
	errs    map[int]error
	current *globalsearch.Session

	scrapes   atomic.Int32
	refreshes atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		courses: map[int]globalsearch.Course{},
		errs:    map[int]error{},
		current: &globalsearch.Session{},
	}
}

func (f *fakeSource) set(courseNumber int, status globalsearch.Status) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.courses[courseNumber] = testCourse(courseNumber, status)
	delete(f.errs, courseNumber)
}

func (f *fakeSource) setCourse(courseNumber int, course globalsearch.Course) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.courses[courseNumber] = course
}

func (f *fakeSource) fail(courseNumber int, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.errs[courseNumber] = err
}

func (f *fakeSource) Session(ctx context.Context) (*globalsearch.Session, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.current, nil
}

func (f *fakeSource) RefreshSession(ctx context.Context, stale *globalsearch.Session) (*globalsearch.Session, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if stale == nil || stale == f.current {
		f.refreshes.Add(1)
		f.current = &globalsearch.Session{}
	}
	return f.current, nil
}

func (f *fakeSource) Scrape(ctx context.Context, session *globalsearch.Session, enc globalsearch.EncodedQuery) (globalsearch.Course, error) {
	f.scrapes.Add(1)
	decoded, err := base64.StdEncoding.DecodeString(enc.ClassNumberSearched)
	if err != nil {
		return globalsearch.Course{}, err
	}
	courseNumber, err := strconv.Atoi(string(decoded))
	if err != nil {
		return globalsearch.Course{}, err
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err, ok := f.errs[courseNumber]; ok {
		return globalsearch.Course{}, err
	}
	course, ok := f.courses[courseNumber]
	if !ok {
		return globalsearch.Course{}, &globalsearch.ExtractionError{Field: globalsearch.FieldCourseName}
	}
	return course, nil
}

func newTestService(t testing.TB) (Service, coursestore.Store, *fakeSource) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/coursewatch",
	})
	t.Cleanup(cleanup)
	store := res.Store
	source := newFakeSource()
	service := NewService(ServiceOptions{
		Store:  store,
		Source: source,
		Now:    testNowFunc,
	})
	return service, store, source
}

func TestAddTrackedCourse(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	source.set(12345, globalsearch.StatusClosed)

	opts := globalsearch.QueryOptions{CourseNumber: 12345}
	res, err := service.AddTrackedCourse(ctx, opts, "alice", "channel-1")
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "Intro to Systems", res.Details.CourseName)
	require.Equal(t, 2026, res.Query.Year)
	require.Equal(t, globalsearch.TermFall, res.Query.Term)

	_, err = service.AddTrackedCourse(ctx, opts, "alice", "channel-1")
	require.ErrorIs(t, err, ErrAlreadyTracking)

	// a second subscriber does not scrape again
	scrapes := source.scrapes.Load()
	second, err := service.AddTrackedCourse(ctx, opts, "bob", "channel-2")
	require.NoError(t, err)
	require.False(t, second.Created)
	require.Equal(t, res.Uid, second.Uid)
	require.Equal(t, "Intro to Systems", second.Details.CourseName)
	require.Equal(t, scrapes, source.scrapes.Load())

	subscribers, err := store.ListSubscribers(ctx, res.Uid)
	require.NoError(t, err)
	require.ElementsMatch(t, []coursestore.Subscriber{
		{SubscriberID: "alice", ChannelID: "channel-1"},
		{SubscriberID: "bob", ChannelID: "channel-2"},
	}, subscribers)

	avail, err := service.GetAvailability(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, globalsearch.StatusClosed, avail.Status)

	details, err := service.GetDetails(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, "12345", details.CourseNumber)
}

func TestAddTrackedCourseMismatch(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)

	// the search tool answered with a different section
	source.setCourse(12345, testCourse(54321, globalsearch.StatusOpen))

	_, err := service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 12345}, "alice", "channel-1")
	var mismatch *globalsearch.MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "12345", mismatch.Expected)
	require.Equal(t, "54321", mismatch.Got)

	identities, err := store.ListIdentities(ctx)
	require.NoError(t, err)
	require.Empty(t, identities)
}

func TestAddTrackedCourseScrapeFailure(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	source.fail(12345, &globalsearch.TransportError{Op: "fetch", StatusCode: 503})

	_, err := service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 12345}, "alice", "channel-1")
	require.ErrorIs(t, err, globalsearch.ErrTransport)
	// one retry on a fresh session
	require.Equal(t, int32(2), source.scrapes.Load())
	require.Equal(t, int32(1), source.refreshes.Load())

	identities, err := store.ListIdentities(ctx)
	require.NoError(t, err)
	require.Empty(t, identities)
}

func TestAddTrackedCourseInvalidQuery(t *testing.T) {
	ctx := context.Background()
	service, _, source := newTestService(t)

	_, err := service.AddTrackedCourse(ctx, globalsearch.QueryOptions{
		CourseNumber: 12345,
		Institution:  "Queens Colege",
	}, "alice", "channel-1")
	var lookup *globalsearch.LookupError
	require.ErrorAs(t, err, &lookup)
	require.Equal(t, "Queens College", lookup.Suggestion)

	_, err = service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 12}, "alice", "channel-1")
	require.ErrorIs(t, err, globalsearch.ErrLookup)
	require.Zero(t, source.scrapes.Load())
}

func TestRemoveTrackedCourse(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	source.set(12345, globalsearch.StatusClosed)
	opts := globalsearch.QueryOptions{CourseNumber: 12345}

	_, err := service.RemoveTrackedCourse(ctx, opts, "alice")
	require.ErrorIs(t, err, ErrNotTracking)

	_, err = service.AddTrackedCourse(ctx, opts, "alice", "channel-1")
	require.NoError(t, err)
	_, err = service.AddTrackedCourse(ctx, opts, "bob", "channel-2")
	require.NoError(t, err)

	_, err = service.RemoveTrackedCourse(ctx, opts, "carol")
	require.ErrorIs(t, err, ErrNotTracking)

	res, err := service.RemoveTrackedCourse(ctx, opts, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Remaining)
	require.False(t, res.Deleted)

	res, err = service.RemoveTrackedCourse(ctx, opts, "bob")
	require.NoError(t, err)
	require.Zero(t, res.Remaining)
	require.True(t, res.Deleted)

	identities, err := store.ListIdentities(ctx)
	require.NoError(t, err)
	require.Empty(t, identities)

	_, err = service.GetAvailability(ctx, opts)
	require.ErrorIs(t, err, ErrCourseNotFound)
	_, err = service.GetDetails(ctx, opts)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListTracked(t *testing.T) {
	ctx := context.Background()
	service, _, source := newTestService(t)
	source.set(12345, globalsearch.StatusClosed)
	source.set(23456, globalsearch.StatusOpen)

	_, err := service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 12345}, "alice", "channel-1")
	require.NoError(t, err)
	_, err = service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 23456}, "alice", "channel-1")
	require.NoError(t, err)
	_, err = service.AddTrackedCourse(ctx, globalsearch.QueryOptions{CourseNumber: 23456}, "bob", "channel-2")
	require.NoError(t, err)

	mine, err := service.ListMyTracked(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "23456", mine[0].Details.CourseNumber)

	all, err := service.ListAllTracked(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	counts := map[string]int64{}
	for _, c := range all {
		counts[c.Details.CourseNumber] = c.Subscribers
	}
	require.Equal(t, map[string]int64{"12345": 1, "23456": 2}, counts)
}

func TestScrapeDoesNotTrack(t *testing.T) {
	ctx := context.Background()
	service, store, source := newTestService(t)
	source.set(12345, globalsearch.StatusOpen)

	q, course, err := service.Scrape(ctx, globalsearch.QueryOptions{CourseNumber: 12345})
	require.NoError(t, err)
	require.Equal(t, 12345, q.CourseNumber)
	require.Equal(t, globalsearch.StatusOpen, course.Availability.Status)

	// served from the cache
	_, _, err = service.Scrape(ctx, globalsearch.QueryOptions{CourseNumber: 12345})
	require.NoError(t, err)
	require.Equal(t, int32(1), source.scrapes.Load())

	identities, err := store.ListIdentities(ctx)
	require.NoError(t, err)
	require.Empty(t, identities)
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "You are already tracking this course!", UserMessage(ErrAlreadyTracking))
	require.Equal(t, "Course not found in database!", UserMessage(ErrCourseNotFound))
	require.Equal(
		t,
		`an error occurred: unknown institution "Nowhere"`,
		UserMessage(&globalsearch.LookupError{Kind: globalsearch.LookupInstitution, Name: "Nowhere"}),
	)
}
