// Package session provides per-session view state persistence.
//
// Each connected renderer (browser tab, TUI instance) gets a session holding
// its navigation state: drill target, breadcrumb trail and selection. The
// graph model itself is immutable and shared; only this small state differs
// per session.
//
// Three backends implement the Store interface:
//   - MemoryStore: in-process, for the TUI and tests
//   - FileStore: survives CLI restarts
//   - RedisStore: multi-instance API deployments
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"archview/pkg/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// Session stores one renderer's navigation state.
type Session struct {
	ID        string         `json:"id"`
	Snapshot  string         `json:"snapshot,omitempty"` // snapshot name the session views
	State     view.ViewState `json:"state"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
}

// New creates a session with a fresh id and the given TTL.
// A non-positive TTL uses DefaultTTL.
func New(snapshot string, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Snapshot:  snapshot,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store persists sessions.
type Store interface {
	// Get retrieves a session by id. Returns ErrNotFound for unknown ids
	// and ErrExpired for sessions past their TTL.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
