// Package session stores server-owned word boards between requests.
//
// A Session wraps a [wordbank.Board] with an ID and a sliding expiry. Every
// mutation goes through [Store.Update], which loads the session, applies one
// change and writes it back atomically for that session:
//   - memory: in-process map for single-instance servers and tests
//   - file: JSON files for the CLI and single-node deployments
//   - redis: shared storage for multi-instance deployments, using
//     optimistic WATCH/MULTI transactions
//
// # Usage
//
//	sess := session.New(board, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Update(ctx, id, func(s *session.Session) error {
//	    _, err := s.Board.Tap(2)
//	    return err
//	})
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// Default durations.
const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = time.Hour

	// DefaultCleanupInterval is how often the server sweeps expired
	// sessions from stores that need it.
	DefaultCleanupInterval = 5 * time.Minute
)

// Session is one stored board.
type Session struct {
	ID        string          `json:"id"`
	Board     *wordbank.Board `json:"board"`
	Target    []string        `json:"target,omitempty"`
	TTL       time.Duration   `json:"ttl"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`

	// Events holds the drop events produced by the last update.
	Events []wordbank.DropEvent `json:"events,omitempty"`
}

// New creates a session for b with a fresh random ID.
func New(b *wordbank.Board, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Board:     b,
		TTL:       ttl,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry by the session TTL.
func (s *Session) Touch() {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(s.TTL)
}

// Remaining returns the time left before the session expires.
func (s *Session) Remaining() time.Duration {
	return time.Until(s.ExpiresAt)
}

// UpdateFunc mutates a session. Returning an error aborts the update and
// leaves the stored session unchanged.
type UpdateFunc func(*Session) error

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session. A missing session is SESSION_NOT_FOUND and
	// an expired one SESSION_EXPIRED.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Update applies fn to the stored session, refreshes its expiry and
	// writes it back. Updates of the same session never interleave.
	Update(ctx context.Context, id string, fn UpdateFunc) (*Session, error)

	// Delete removes a session. Deleting a missing session succeeds.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	Close() error
}

// apply runs fn against a private copy of s so a failed update never leaks
// a half-applied board into the store.
func apply(s *Session, fn UpdateFunc) (*Session, error) {
	c := s.clone()
	c.Events = nil
	c.Board.OnDrop(func(ev wordbank.DropEvent) { c.Events = append(c.Events, ev) })
	if err := fn(c); err != nil {
		return nil, err
	}
	c.Board.OnDrop(nil)
	c.Touch()
	return c, nil
}

func (s *Session) clone() *Session {
	c := *s
	if s.Board != nil {
		c.Board = s.Board.Clone()
	}
	c.Target = append([]string(nil), s.Target...)
	c.Events = append([]wordbank.DropEvent(nil), s.Events...)
	return &c
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
}

func expired(id string) error {
	return errors.New(errors.ErrCodeSessionExpired, "session %s expired", id)
}
