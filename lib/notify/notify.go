package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"seatwatch-backend/lib/scrapers/globalsearch"
)

// Notification tells one subscriber that a course changed status.
type Notification struct {
	SubscriberID string
	// ChannelID is where the subscriber asked to be notified, "mailto:"
	// channels are delivered by e-mail.
	ChannelID    string
	CourseNumber string
	CourseName   string
	Previous     globalsearch.Status
	Current      globalsearch.Status
	// Message is the rendered chat message, Summary is used when it is empty.
	Message string
}

func (n Notification) Summary() string {
	return fmt.Sprintf(
		"%s (%s) is now %s, it was %s.",
		n.CourseName, n.CourseNumber, n.Current, n.Previous,
	)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

type DispatcherFunc func(ctx context.Context, n Notification) error

func (f DispatcherFunc) Dispatch(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// LogDispatcher only logs notifications.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, n Notification) error {
	slog.InfoContext(
		ctx, "course status changed",
		"subscriber", n.SubscriberID,
		"channel", n.ChannelID,
		"course_number", n.CourseNumber,
		"previous", n.Previous,
		"current", n.Current,
	)
	return nil
}

type multiDispatcher []Dispatcher

// Multi sends every notification to all dispatchers and joins their errors.
func Multi(dispatchers ...Dispatcher) Dispatcher {
	return multiDispatcher(dispatchers)
}

func (m multiDispatcher) Dispatch(ctx context.Context, n Notification) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const mailtoPrefix = "mailto:"

// IsEmailChannel reports whether a channel id is an e-mail address.
func IsEmailChannel(channelId string) bool {
	return strings.HasPrefix(channelId, mailtoPrefix)
}

// Router delivers to Email for "mailto:" channels and to Chat otherwise. A
// nil route drops the notification with a warning.
type Router struct {
	Chat  Dispatcher
	Email Dispatcher
}

func (r Router) Dispatch(ctx context.Context, n Notification) error {
	target := r.Chat
	if IsEmailChannel(n.ChannelID) {
		target = r.Email
	}
	if target == nil {
		slog.WarnContext(
			ctx, "no dispatcher for channel, dropping notification",
			"subscriber", n.SubscriberID,
			"channel", n.ChannelID,
		)
		return nil
	}
	return target.Dispatch(ctx, n)
}
