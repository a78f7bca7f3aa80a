package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscordDispatcher(t *testing.T) {
	var received discordMessage
	var path, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		err := json.NewDecoder(r.Body).Decode(&received)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "1"}`))
	}))
	defer server.Close()

	dispatcher := NewDiscordDispatcher(DiscordOptions{
		ApiUrl:   server.URL,
		BotToken: "bot-token",
	})

	n := testNotification("channel-1")
	n.Message = "```ansi\nStatus: Open\n```"
	err := dispatcher.Dispatch(context.Background(), n)
	require.NoError(t, err)

	require.Equal(t, "/channels/channel-1/messages", path)
	require.Equal(t, "Bot bot-token", auth)
	require.Equal(t, "<@alice>\n```ansi\nStatus: Open\n```", received.Content)
	require.Equal(t, []string{"alice"}, received.AllowedMentions.Users)
}

func TestDiscordDispatcherRejected(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Missing Access", "code": 50001}`))
	}))
	defer server.Close()

	dispatcher := NewDiscordDispatcher(DiscordOptions{ApiUrl: server.URL})
	err := dispatcher.Dispatch(context.Background(), testNotification("channel-1"))
	require.ErrorContains(t, err, "403")
	// client errors other than rate limits are not retried
	require.EqualValues(t, 1, calls.Load())
}
