package coursestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"seatwatch-backend/lib/coursestore/db"
	"seatwatch-backend/lib/scrapers/globalsearch"
	"seatwatch-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
	now func() time.Time
}

// NewStore wraps a database that already has db.Schema applied.
func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
		now: timezone.Now,
	}
}

func (s Store) Close() error {
	return s.db.Close()
}

// Identity is a tracked course, identified by the encoded form of its query.
type Identity struct {
	Uid       int64
	Query     globalsearch.Query
	Encoded   globalsearch.EncodedQuery
	CreatedAt time.Time
}

type Subscriber struct {
	SubscriberID string
	ChannelID    string
}

type TrackedCourse struct {
	Identity     Identity
	Details      globalsearch.CourseDetails
	Availability globalsearch.CourseAvailability
	UpdatedAt    time.Time
	// Subscribers is only filled in by ListTrackedCourses.
	Subscribers int64
}

func identityFromRow(row db.CourseIdentity) Identity {
	term, _ := globalsearch.ParseTerm(row.Term)
	return Identity{
		Uid: row.Uid,
		Query: globalsearch.Query{
			CourseNumber: int(row.CourseNumber),
			Year:         int(row.Year),
			Term:         term,
			Session:      row.Session,
			Institution:  row.Institution,
		},
		Encoded: globalsearch.EncodedQuery{
			ClassNumberSearched: row.ClassNumberSearched,
			SessionSearched:     row.SessionSearched,
			TermSearched:        row.TermSearched,
			InstSearched:        row.InstSearched,
		},
		CreatedAt: time.Unix(row.CreatedAt, 0).In(timezone.Location),
	}
}

func detailsFromRow(row db.CourseDetail) globalsearch.CourseDetails {
	return globalsearch.CourseDetails{
		CourseNumber: row.CourseNumber,
		CourseName:   row.CourseName,
		DaysAndTimes: row.DaysAndTimes,
		Room:         row.Room,
		Instructor:   row.Instructor,
		MeetingDates: row.MeetingDates,
	}
}

func availabilityFromRow(row db.CourseAvailability) globalsearch.CourseAvailability {
	return globalsearch.CourseAvailability{
		Status:              globalsearch.Status(row.Status),
		CourseCapacity:      row.CourseCapacity,
		WaitlistCapacity:    row.WaitlistCapacity,
		CurrentlyEnrolled:   row.CurrentlyEnrolled,
		CurrentlyWaitlisted: row.CurrentlyWaitlisted,
		AvailableSeats:      row.AvailableSeats,
	}
}

func encodedParams(enc globalsearch.EncodedQuery) db.GetIdentityByEncodedParams {
	return db.GetIdentityByEncodedParams{
		ClassNumberSearched: enc.ClassNumberSearched,
		SessionSearched:     enc.SessionSearched,
		TermSearched:        enc.TermSearched,
		InstSearched:        enc.InstSearched,
	}
}

func getOrCreateIdentity(ctx context.Context, txqry *db.Queries, q globalsearch.Query, enc globalsearch.EncodedQuery, now time.Time) (int64, bool, error) {
	existing, err := txqry.GetIdentityByEncoded(ctx, encodedParams(enc))
	if err == nil {
		return existing.Uid, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	err = txqry.CreateIdentity(ctx, db.CreateIdentityParams{
		CourseNumber:        int64(q.CourseNumber),
		Year:                int64(q.Year),
		Term:                q.Term.String(),
		Session:             q.Session,
		Institution:         q.Institution,
		ClassNumberSearched: enc.ClassNumberSearched,
		SessionSearched:     enc.SessionSearched,
		TermSearched:        enc.TermSearched,
		InstSearched:        enc.InstSearched,
		CreatedAt:           now.Unix(),
	})
	if err != nil {
		return 0, false, err
	}
	created, err := txqry.GetIdentityByEncoded(ctx, encodedParams(enc))
	if err != nil {
		return 0, false, err
	}
	return created.Uid, true, nil
}

// GetOrCreateIdentity returns the uid for the encoded query, creating the
// identity if it has never been seen. Concurrent callers with the same
// encoded query always get the same uid.
func (s Store) GetOrCreateIdentity(ctx context.Context, q globalsearch.Query, enc globalsearch.EncodedQuery) (uid int64, created bool, err error) {
	ctx, span := tracer.Start(ctx, "GetOrCreateIdentity")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, storeError("begin get or create identity", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	uid, created, err = getOrCreateIdentity(ctx, txqry, q, enc, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get or create identity")
		return 0, false, storeError("get or create identity", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, storeError("commit get or create identity", err)
	}
	span.SetAttributes(attribute.Int64("uid", uid), attribute.Bool("created", created))
	return uid, created, nil
}

func (s Store) FindIdentity(ctx context.Context, enc globalsearch.EncodedQuery) (Identity, error) {
	row, err := s.qry.GetIdentityByEncoded(ctx, encodedParams(enc))
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, storeError("find identity", err)
	}
	return identityFromRow(row), nil
}

func (s Store) GetIdentity(ctx context.Context, uid int64) (Identity, error) {
	row, err := s.qry.GetIdentity(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, storeError("get identity", err)
	}
	return identityFromRow(row), nil
}

func (s Store) ListIdentities(ctx context.Context) ([]Identity, error) {
	rows, err := s.qry.ListIdentities(ctx)
	if err != nil {
		return nil, storeError("list identities", err)
	}
	identities := make([]Identity, len(rows))
	for i, r := range rows {
		identities[i] = identityFromRow(r)
	}
	return identities, nil
}

func detailsParams(uid int64, details globalsearch.CourseDetails) db.CreateDetailsParams {
	return db.CreateDetailsParams{
		Uid:          uid,
		CourseNumber: details.CourseNumber,
		CourseName:   details.CourseName,
		DaysAndTimes: details.DaysAndTimes,
		Room:         details.Room,
		Instructor:   details.Instructor,
		MeetingDates: details.MeetingDates,
	}
}

func availabilityParams(uid int64, avail globalsearch.CourseAvailability, now time.Time) db.CreateAvailabilityParams {
	return db.CreateAvailabilityParams{
		Uid:                 uid,
		Status:              string(avail.Status),
		CourseCapacity:      avail.CourseCapacity,
		WaitlistCapacity:    avail.WaitlistCapacity,
		CurrentlyEnrolled:   avail.CurrentlyEnrolled,
		CurrentlyWaitlisted: avail.CurrentlyWaitlisted,
		AvailableSeats:      avail.AvailableSeats,
		UpdatedAt:           now.Unix(),
	}
}

// PutDetails stores the details of a course, details that are already stored
// are kept.
func (s Store) PutDetails(ctx context.Context, uid int64, details globalsearch.CourseDetails) error {
	err := s.qry.CreateDetails(ctx, detailsParams(uid, details))
	if err != nil {
		return storeError("put details", err)
	}
	return nil
}

// PutAvailability stores the first availability of a course, it does nothing
// if one is already stored.
func (s Store) PutAvailability(ctx context.Context, uid int64, avail globalsearch.CourseAvailability) error {
	err := s.qry.CreateAvailability(ctx, availabilityParams(uid, avail, s.now()))
	if err != nil {
		return storeError("put availability", err)
	}
	return nil
}

// UpdateAvailability overwrites the availability of a course and returns the
// status it had immediately before. existed is false when there was no
// availability stored.
func (s Store) UpdateAvailability(ctx context.Context, uid int64, avail globalsearch.CourseAvailability) (previous globalsearch.Status, existed bool, err error) {
	ctx, span := tracer.Start(ctx, "UpdateAvailability")
	defer span.End()
	span.SetAttributes(attribute.Int64("uid", uid))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, storeError("begin update availability", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	_, err = txqry.GetIdentity(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, storeError("get identity", err)
	}

	row, err := txqry.GetAvailability(ctx, uid)
	switch {
	case err == nil:
		previous = globalsearch.Status(row.Status)
		existed = true
	case errors.Is(err, sql.ErrNoRows):
	default:
		return "", false, storeError("get availability", err)
	}

	err = txqry.UpsertAvailability(ctx, db.UpsertAvailabilityParams(availabilityParams(uid, avail, s.now())))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert availability")
		return "", false, storeError("update availability", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, storeError("commit update availability", err)
	}
	return previous, existed, nil
}

func (s Store) GetDetails(ctx context.Context, uid int64) (globalsearch.CourseDetails, error) {
	row, err := s.qry.GetDetails(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return globalsearch.CourseDetails{}, ErrNotFound
	}
	if err != nil {
		return globalsearch.CourseDetails{}, storeError("get details", err)
	}
	return detailsFromRow(row), nil
}

func (s Store) GetAvailability(ctx context.Context, uid int64) (globalsearch.CourseAvailability, error) {
	row, err := s.qry.GetAvailability(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return globalsearch.CourseAvailability{}, ErrNotFound
	}
	if err != nil {
		return globalsearch.CourseAvailability{}, storeError("get availability", err)
	}
	return availabilityFromRow(row), nil
}

// AddSubscription subscribes a user to a tracked course. Subscribing again
// only updates the notification channel.
func (s Store) AddSubscription(ctx context.Context, uid int64, subscriberId, channelId string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin add subscription", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	_, err = txqry.GetIdentity(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storeError("get identity", err)
	}
	err = txqry.CreateSubscription(ctx, db.CreateSubscriptionParams{
		Uid:          uid,
		SubscriberID: subscriberId,
		ChannelID:    channelId,
		CreatedAt:    s.now().Unix(),
	})
	if err != nil {
		return storeError("add subscription", err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit add subscription", err)
	}
	return nil
}

// RemoveSubscription unsubscribes a user and returns how many subscribers
// remain. When none remain the course and everything stored for it is
// deleted.
func (s Store) RemoveSubscription(ctx context.Context, uid int64, subscriberId string) (remaining int64, err error) {
	ctx, span := tracer.Start(ctx, "RemoveSubscription")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeError("begin remove subscription", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	deleted, err := txqry.DeleteSubscription(ctx, db.DeleteSubscriptionParams{
		Uid:          uid,
		SubscriberID: subscriberId,
	})
	if err != nil {
		return 0, storeError("remove subscription", err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}

	remaining, err = txqry.CountSubscriptions(ctx, uid)
	if err != nil {
		return 0, storeError("count subscriptions", err)
	}
	if remaining == 0 {
		// remote libsql connections do not always enforce foreign keys.
		err = txqry.DeleteDetails(ctx, uid)
		if err != nil {
			return 0, storeError("delete details", err)
		}
		err = txqry.DeleteAvailability(ctx, uid)
		if err != nil {
			return 0, storeError("delete availability", err)
		}
		err = txqry.DeleteIdentity(ctx, uid)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete identity")
			return 0, storeError("delete identity", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeError("commit remove subscription", err)
	}
	span.SetAttributes(attribute.Int64("remaining", remaining))
	return remaining, nil
}

func (s Store) ListSubscribers(ctx context.Context, uid int64) ([]Subscriber, error) {
	rows, err := s.qry.ListSubscribers(ctx, uid)
	if err != nil {
		return nil, storeError("list subscribers", err)
	}
	subscribers := make([]Subscriber, len(rows))
	for i, r := range rows {
		subscribers[i] = Subscriber{
			SubscriberID: r.SubscriberID,
			ChannelID:    r.ChannelID,
		}
	}
	return subscribers, nil
}

func (s Store) IsSubscribed(ctx context.Context, uid int64, subscriberId string) (bool, error) {
	exists, err := s.qry.IsSubscribed(ctx, db.IsSubscribedParams{
		Uid:          uid,
		SubscriberID: subscriberId,
	})
	if err != nil {
		return false, storeError("is subscribed", err)
	}
	return exists != 0, nil
}

func (s Store) ListSubscriberCourses(ctx context.Context, subscriberId string) ([]TrackedCourse, error) {
	rows, err := s.qry.ListSubscriberCourses(ctx, subscriberId)
	if err != nil {
		return nil, storeError("list subscriber courses", err)
	}
	courses := make([]TrackedCourse, len(rows))
	for i, r := range rows {
		courses[i] = TrackedCourse{
			Identity:     identityFromRow(r.CourseIdentity),
			Details:      detailsFromRow(r.CourseDetail),
			Availability: availabilityFromRow(r.CourseAvailability),
			UpdatedAt:    time.Unix(r.CourseAvailability.UpdatedAt, 0).In(timezone.Location),
		}
	}
	return courses, nil
}

func (s Store) ListTrackedCourses(ctx context.Context) ([]TrackedCourse, error) {
	rows, err := s.qry.ListTrackedCourses(ctx)
	if err != nil {
		return nil, storeError("list tracked courses", err)
	}
	courses := make([]TrackedCourse, len(rows))
	for i, r := range rows {
		courses[i] = TrackedCourse{
			Identity:     identityFromRow(r.CourseIdentity),
			Details:      detailsFromRow(r.CourseDetail),
			Availability: availabilityFromRow(r.CourseAvailability),
			UpdatedAt:    time.Unix(r.CourseAvailability.UpdatedAt, 0).In(timezone.Location),
			Subscribers:  r.SubscriberCount,
		}
	}
	return courses, nil
}

type TrackRequest struct {
	Query        globalsearch.Query
	Encoded      globalsearch.EncodedQuery
	Details      globalsearch.CourseDetails
	Availability globalsearch.CourseAvailability
	SubscriberID string
	ChannelID    string
}

type TrackResult struct {
	Uid int64
	// Created is true when nobody tracked the course before.
	Created bool
}

// TrackCourse records a freshly scraped course and subscribes the requester
// to it in a single transaction, a failure leaves nothing behind.
func (s Store) TrackCourse(ctx context.Context, req TrackRequest) (TrackResult, error) {
	ctx, span := tracer.Start(ctx, "TrackCourse")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TrackResult{}, storeError("begin track course", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)
	now := s.now()

	uid, created, err := getOrCreateIdentity(ctx, txqry, req.Query, req.Encoded, now)
	if err != nil {
		return TrackResult{}, storeError("get or create identity", err)
	}
	err = txqry.CreateDetails(ctx, detailsParams(uid, req.Details))
	if err != nil {
		return TrackResult{}, storeError("put details", err)
	}
	err = txqry.CreateAvailability(ctx, availabilityParams(uid, req.Availability, now))
	if err != nil {
		return TrackResult{}, storeError("put availability", err)
	}
	err = txqry.CreateSubscription(ctx, db.CreateSubscriptionParams{
		Uid:          uid,
		SubscriberID: req.SubscriberID,
		ChannelID:    req.ChannelID,
		CreatedAt:    now.Unix(),
	})
	if err != nil {
		return TrackResult{}, storeError("add subscription", err)
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit")
		return TrackResult{}, storeError("commit track course", err)
	}
	span.SetAttributes(attribute.Int64("uid", uid), attribute.Bool("created", created))
	return TrackResult{Uid: uid, Created: created}, nil
}
