package coursewatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"seatwatch-backend/lib/coursestore"
	"seatwatch-backend/lib/scrapers/globalsearch"
	"seatwatch-backend/lib/timezone"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Source scrapes course pages, *globalsearch.Scraper is the implementation
// used outside of tests.
type Source interface {
	Session(ctx context.Context) (*globalsearch.Session, error)
	RefreshSession(ctx context.Context, stale *globalsearch.Session) (*globalsearch.Session, error)
	Scrape(ctx context.Context, session *globalsearch.Session, enc globalsearch.EncodedQuery) (globalsearch.Course, error)
}

type Service struct {
	store  coursestore.Store
	source Source
	cache  *expirable.LRU[globalsearch.EncodedQuery, globalsearch.Course]
	now    func() time.Time
}

type ServiceOptions struct {
	Store  coursestore.Store
	Source Source
	// CacheTTL is how long a scraped page is reused by commands, defaults to
	// one minute.
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewService(opts ServiceOptions) Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.Now == nil {
		opts.Now = timezone.Now
	}
	return Service{
		store:  opts.Store,
		source: opts.Source,
		cache:  expirable.NewLRU[globalsearch.EncodedQuery, globalsearch.Course](256, nil, opts.CacheTTL),
		now:    opts.Now,
	}
}

// scrape fetches the course for q, retrying once on a new session when the
// current one fails. Successful scrapes are cached.
func (s Service) scrape(ctx context.Context, q globalsearch.Query, enc globalsearch.EncodedQuery) (globalsearch.Course, error) {
	course, ok := s.cache.Get(enc)
	if ok {
		return course, nil
	}

	session, err := s.source.Session(ctx)
	if err != nil {
		return globalsearch.Course{}, err
	}
	course, err = s.source.Scrape(ctx, session, enc)
	if errors.Is(err, globalsearch.ErrTransport) {
		slog.WarnContext(ctx, "scrape failed, retrying on a new session", "query", q.String(), "err", err)
		session, err = s.source.RefreshSession(ctx, session)
		if err != nil {
			return globalsearch.Course{}, err
		}
		course, err = s.source.Scrape(ctx, session, enc)
	}
	if err != nil {
		return globalsearch.Course{}, err
	}
	err = globalsearch.CheckCourseNumber(q, course.Details)
	if err != nil {
		return globalsearch.Course{}, err
	}

	s.cache.Add(enc, course)
	return course, nil
}

func (s Service) resolve(opts globalsearch.QueryOptions) (globalsearch.Query, globalsearch.EncodedQuery, error) {
	q, err := globalsearch.NewQuery(opts, s.now())
	if err != nil {
		return globalsearch.Query{}, globalsearch.EncodedQuery{}, err
	}
	enc, err := globalsearch.Encode(q)
	if err != nil {
		return globalsearch.Query{}, globalsearch.EncodedQuery{}, err
	}
	return q, enc, nil
}

type AddResult struct {
	Uid     int64
	Query   globalsearch.Query
	Details globalsearch.CourseDetails
	// Created is true when nobody tracked the course before.
	Created bool
}

// AddTrackedCourse subscribes a user to a course. A course nobody tracks yet
// is scraped first and nothing is stored if the scrape fails.
func (s Service) AddTrackedCourse(ctx context.Context, opts globalsearch.QueryOptions, subscriberId, channelId string) (AddResult, error) {
	ctx, span := tracer.Start(ctx, "AddTrackedCourse")
	defer span.End()

	q, enc, err := s.resolve(opts)
	if err != nil {
		return AddResult{}, err
	}
	span.SetAttributes(attribute.String("query", q.String()))

	identity, err := s.store.FindIdentity(ctx, enc)
	switch {
	case err == nil:
		subscribed, err := s.store.IsSubscribed(ctx, identity.Uid, subscriberId)
		if err != nil {
			return AddResult{}, err
		}
		if subscribed {
			return AddResult{}, ErrAlreadyTracking
		}
		err = s.store.AddSubscription(ctx, identity.Uid, subscriberId, channelId)
		if err == nil {
			details, err := s.store.GetDetails(ctx, identity.Uid)
			if err != nil && !errors.Is(err, coursestore.ErrNotFound) {
				return AddResult{}, err
			}
			return AddResult{
				Uid:     identity.Uid,
				Query:   identity.Query,
				Details: details,
			}, nil
		}
		// the last subscriber removed the course in between, track it from
		// scratch.
		if !errors.Is(err, coursestore.ErrNotFound) {
			return AddResult{}, err
		}
	case !errors.Is(err, coursestore.ErrNotFound):
		return AddResult{}, err
	}

	course, err := s.scrape(ctx, q, enc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape course")
		return AddResult{}, err
	}
	res, err := s.store.TrackCourse(ctx, coursestore.TrackRequest{
		Query:        q,
		Encoded:      enc,
		Details:      course.Details,
		Availability: course.Availability,
		SubscriberID: subscriberId,
		ChannelID:    channelId,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store course")
		return AddResult{}, err
	}

	slog.InfoContext(
		ctx, "tracking course",
		"uid", res.Uid,
		"query", q.String(),
		"subscriber", subscriberId,
		"created", res.Created,
	)
	return AddResult{
		Uid:     res.Uid,
		Query:   q,
		Details: course.Details,
		Created: res.Created,
	}, nil
}

type RemoveResult struct {
	Query     globalsearch.Query
	Remaining int64
	// Deleted is true when nobody else tracked the course and it was removed
	// from the database.
	Deleted bool
}

func (s Service) RemoveTrackedCourse(ctx context.Context, opts globalsearch.QueryOptions, subscriberId string) (RemoveResult, error) {
	q, enc, err := s.resolve(opts)
	if err != nil {
		return RemoveResult{}, err
	}
	identity, err := s.store.FindIdentity(ctx, enc)
	if errors.Is(err, coursestore.ErrNotFound) {
		return RemoveResult{}, ErrNotTracking
	}
	if err != nil {
		return RemoveResult{}, err
	}

	remaining, err := s.store.RemoveSubscription(ctx, identity.Uid, subscriberId)
	if errors.Is(err, coursestore.ErrNotFound) {
		return RemoveResult{}, ErrNotTracking
	}
	if err != nil {
		return RemoveResult{}, err
	}
	if remaining == 0 {
		s.cache.Remove(enc)
	}
	return RemoveResult{
		Query:     q,
		Remaining: remaining,
		Deleted:   remaining == 0,
	}, nil
}

func (s Service) findTracked(ctx context.Context, opts globalsearch.QueryOptions) (coursestore.Identity, error) {
	_, enc, err := s.resolve(opts)
	if err != nil {
		return coursestore.Identity{}, err
	}
	identity, err := s.store.FindIdentity(ctx, enc)
	if errors.Is(err, coursestore.ErrNotFound) {
		return coursestore.Identity{}, ErrCourseNotFound
	}
	return identity, err
}

// GetAvailability returns the stored availability of a tracked course.
func (s Service) GetAvailability(ctx context.Context, opts globalsearch.QueryOptions) (globalsearch.CourseAvailability, error) {
	identity, err := s.findTracked(ctx, opts)
	if err != nil {
		return globalsearch.CourseAvailability{}, err
	}
	avail, err := s.store.GetAvailability(ctx, identity.Uid)
	if errors.Is(err, coursestore.ErrNotFound) {
		return globalsearch.CourseAvailability{}, ErrCourseNotFound
	}
	return avail, err
}

func (s Service) GetDetails(ctx context.Context, opts globalsearch.QueryOptions) (globalsearch.CourseDetails, error) {
	identity, err := s.findTracked(ctx, opts)
	if err != nil {
		return globalsearch.CourseDetails{}, err
	}
	details, err := s.store.GetDetails(ctx, identity.Uid)
	if errors.Is(err, coursestore.ErrNotFound) {
		return globalsearch.CourseDetails{}, ErrCourseNotFound
	}
	return details, err
}

func (s Service) ListMyTracked(ctx context.Context, subscriberId string) ([]coursestore.TrackedCourse, error) {
	return s.store.ListSubscriberCourses(ctx, subscriberId)
}

func (s Service) ListAllTracked(ctx context.Context) ([]coursestore.TrackedCourse, error) {
	return s.store.ListTrackedCourses(ctx)
}

// Scrape fetches a course without tracking it.
func (s Service) Scrape(ctx context.Context, opts globalsearch.QueryOptions) (globalsearch.Query, globalsearch.Course, error) {
	q, enc, err := s.resolve(opts)
	if err != nil {
		return globalsearch.Query{}, globalsearch.Course{}, err
	}
	course, err := s.scrape(ctx, q, enc)
	if err != nil {
		return globalsearch.Query{}, globalsearch.Course{}, err
	}
	return q, course, nil
}
