package globalsearch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Course struct {
	Details      CourseDetails
	Availability CourseAvailability
}

// Scraper fetches and extracts course pages over a shared session.
type Scraper struct {
	Client   *Client
	Sessions *Sessions
}

func NewScraper(opts ClientOptions) (*Scraper, error) {
	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Scraper{
		Client:   client,
		Sessions: NewSessions(client),
	}, nil
}

// Session returns the session shared by all scrapes.
func (s *Scraper) Session(ctx context.Context) (*Session, error) {
	return s.Sessions.Get(ctx)
}

// RefreshSession replaces stale with a new session, see Sessions.Refresh.
func (s *Scraper) RefreshSession(ctx context.Context, stale *Session) (*Session, error) {
	return s.Sessions.Refresh(ctx, stale)
}

// Scrape fetches the page for enc with session and extracts it.
func (s *Scraper) Scrape(ctx context.Context, session *Session, enc EncodedQuery) (Course, error) {
	ctx, span := tracer.Start(ctx, "scraper:Scrape")
	defer span.End()

	page, err := s.Client.Fetch(ctx, session, enc)
	if err != nil {
		return Course{}, err
	}
	details, avail, err := Extract(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract course page")
		return Course{}, err
	}
	span.SetAttributes(
		attribute.String("course_number", details.CourseNumber),
		attribute.String("status", string(avail.Status)),
	)
	return Course{Details: details, Availability: avail}, nil
}

// ScrapeQuery encodes q, scrapes it on the current session and checks the page
// is for the queried course.
func (s *Scraper) ScrapeQuery(ctx context.Context, q Query) (Course, error) {
	enc, err := Encode(q)
	if err != nil {
		return Course{}, err
	}
	session, err := s.Sessions.Get(ctx)
	if err != nil {
		return Course{}, err
	}
	course, err := s.Scrape(ctx, session, enc)
	if err != nil {
		return Course{}, err
	}
	if err := CheckCourseNumber(q, course.Details); err != nil {
		return Course{}, err
	}
	return course, nil
}
