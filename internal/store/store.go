// Package store persists conversation sessions behind a keyed Store interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

// ErrNotFound is returned when no session exists for an identifier.
var ErrNotFound = errors.New("session not found")

// Store is the keyed session repository consumed by the conversation engine.
// Implementations must be safe for concurrent use across distinct keys and must
// hand out copies, never shared pointers to stored state.
type Store interface {
	// Get returns a private copy of the session or ErrNotFound.
	Get(ctx context.Context, id string) (*chat.Session, error)

	// Put creates or replaces the session stored under session.ID.
	Put(ctx context.Context, session *chat.Session) error

	// Delete removes the session. Missing sessions are not an error.
	Delete(ctx context.Context, id string) error

	// SweepOlderThan evicts sessions idle for longer than ttl and returns how many were removed.
	SweepOlderThan(ctx context.Context, ttl time.Duration) (int, error)

	// Close releases resources held by the store.
	Close() error
}
