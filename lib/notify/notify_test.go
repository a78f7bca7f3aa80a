package notify

import (
	"context"
	"errors"
	"testing"

	"seatwatch-backend/lib/scrapers/globalsearch"

	"github.com/stretchr/testify/require"
)

func testNotification(channel string) Notification {
	return Notification{
		SubscriberID: "alice",
		ChannelID:    channel,
		CourseNumber: "12345",
		CourseName:   "Intro to Systems",
		Previous:     globalsearch.StatusClosed,
		Current:      globalsearch.StatusOpen,
	}
}

func TestSummary(t *testing.T) {
	require.Equal(
		t,
		"Intro to Systems (12345) is now Open, it was Closed.",
		testNotification("channel-1").Summary(),
	)
}

type recorder struct {
	received []Notification
	err      error
}

func (r *recorder) Dispatch(ctx context.Context, n Notification) error {
	r.received = append(r.received, n)
	return r.err
}

func TestMulti(t *testing.T) {
	first := &recorder{}
	second := &recorder{err: errors.New("unreachable")}
	third := &recorder{}

	err := Multi(first, second, third, LogDispatcher{}).Dispatch(context.Background(), testNotification("channel-1"))
	require.ErrorContains(t, err, "unreachable")
	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	require.Len(t, third.received, 1)
}

func TestRouter(t *testing.T) {
	chat := &recorder{}
	mail := &recorder{}
	router := Router{Chat: chat, Email: mail}
	ctx := context.Background()

	require.NoError(t, router.Dispatch(ctx, testNotification("channel-1")))
	require.NoError(t, router.Dispatch(ctx, testNotification("mailto:alice@example.com")))
	require.Len(t, chat.received, 1)
	require.Len(t, mail.received, 1)
	require.Equal(t, "mailto:alice@example.com", mail.received[0].ChannelID)

	// missing routes are dropped
	require.NoError(t, Router{Chat: chat}.Dispatch(ctx, testNotification("mailto:bob@example.com")))
	require.Len(t, chat.received, 1)
}
