package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type session struct {
	token     string
	expiresAt time.Time
}

// SessionStore keeps session tokens in process memory with TTL expiry.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]session{}, now: time.Now}
}

// current returns the live token; callers hold mu.
func (s *SessionStore) current(userID string) string {
	sess, ok := s.sessions[userID]
	if !ok {
		return ""
	}
	if !sess.expiresAt.IsZero() && !s.now().Before(sess.expiresAt) {
		delete(s.sessions, userID)
		return ""
	}
	return sess.token
}

func (s *SessionStore) Current(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(userID), nil
}

func (s *SessionStore) Swap(_ context.Context, userID, prev, next string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current(userID) != prev {
		return false, nil
	}
	sess := session{token: next}
	if ttl > 0 {
		sess.expiresAt = s.now().Add(ttl)
	}
	s.sessions[userID] = sess
	return true, nil
}

func (s *SessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
