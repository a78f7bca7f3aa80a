package globalsearch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Session is an established handshake. It is never modified after creation,
// a refresh produces a new Session and requests already issued on the old one
// complete normally.
type Session struct {
	id        uint64
	http      *resty.Client
	createdAt time.Time
}

func (s *Session) ID() uint64 {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Sessions holds the session currently used for fetching.
type Sessions struct {
	client  *Client
	mutex   sync.Mutex
	current *Session
}

func NewSessions(client *Client) *Sessions {
	return &Sessions{client: client}
}

// Get returns the current session, performing the first handshake if there
// is none yet.
func (s *Sessions) Get(ctx context.Context) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.current != nil {
		return s.current, nil
	}
	session, err := s.client.RefreshSession(ctx)
	if err != nil {
		return nil, err
	}
	s.current = session
	return session, nil
}

// Refresh replaces the current session if it is still stale. When another
// caller already replaced it, the newer session is returned without a new
// handshake. A nil stale session always forces a handshake.
func (s *Sessions) Refresh(ctx context.Context, stale *Session) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if stale != nil && s.current != nil && s.current != stale {
		return s.current, nil
	}

	session, err := s.client.RefreshSession(ctx)
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		slog.InfoContext(
			ctx, "replaced global search session",
			"old_session", s.current.id,
			"new_session", session.id,
		)
	}
	s.current = session
	return session, nil
}
