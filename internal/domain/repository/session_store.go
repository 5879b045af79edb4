package repository

import (
	"context"
	"time"
)

// SessionStore keeps the single active session token per user.
type SessionStore interface {
	// Current returns "" when the user has no stored session.
	Current(ctx context.Context, userID string) (string, error)
	// Swap stores next only if the stored token equals prev ("" meaning
	// absent). It reports whether the swap happened.
	Swap(ctx context.Context, userID, prev, next string, ttl time.Duration) (bool, error)
	Clear(ctx context.Context, userID string) error
}
