// Package session keeps interactive solve sessions.
//
// A scroll offset on a vertical layout only means something across frames:
// the client scrolls, the server solves again with the accumulated offset,
// and so on. A Session holds that state between requests: the scene being
// viewed, the current window and the scroll offset per vertical node.
//
// Sessions are kept in a Store. Three backends are provided:
//   - MemoryStore: process-local, for a single server instance and tests
//   - FileStore: JSON files under ~/.config/crystal/sessions/
//   - RedisStore: shared across server instances, with native expiration
//
// # Usage
//
//	sess, err := session.New(sc, scene.Window{Width: 800, Height: 600}, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	if err := sess.Scroll("list", -40); err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
// Stores report missing sessions with the SESSION_NOT_FOUND code and
// sessions past their expiry with SESSION_EXPIRED.
package session

import (
	"context"
	"maps"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/scene"
)

// DefaultTTL is how long a session lives after its last update.
const DefaultTTL = 30 * time.Minute

// Session is the state of one interactive view of a scene.
type Session struct {
	ID     string       `json:"id"`
	Scene  *scene.Scene `json:"scene"`
	Window scene.Window `json:"window"`
	// Offsets holds the accumulated scroll delta per vertical node id.
	Offsets   map[string]float64 `json:"scroll,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// New creates a session for s viewed through window. The scene is
// validated up front so later solves only fail on session input.
func New(s *scene.Scene, window scene.Window, ttl time.Duration) (*Session, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateWindow(window.Width, window.Height); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Scene:     s,
		Window:    window,
		Offsets:   make(map[string]float64),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's lifetime to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ExpiresAt = time.Now().Add(ttl)
}

// Scroll adds delta to the offset of the vertical node id. Negative deltas
// move content up. The stored offset is not clamped; the solver clamps it
// to the node's content when it is applied.
func (s *Session) Scroll(id string, delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scroll delta must be finite")
	}
	n, ok := s.Scene.Find(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "cannot scroll %q: no such node", id)
	}
	if n.Kind != scene.KindVertical {
		return errors.New(errors.ErrCodeInvalidInput, "cannot scroll %q: not a vertical node", id)
	}
	if s.Offsets == nil {
		s.Offsets = make(map[string]float64)
	}
	s.Offsets[id] += delta
	return nil
}

// Resize changes the window the session is solved in.
func (s *Session) Resize(width, height float64) error {
	if err := errors.ValidateWindow(width, height); err != nil {
		return err
	}
	s.Window = scene.Window{Width: width, Height: height}
	return nil
}

func (s *Session) clone() *Session {
	c := *s
	c.Offsets = maps.Clone(s.Offsets)
	return &c
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. A missing session is reported with
	// SESSION_NOT_FOUND, an expired one with SESSION_EXPIRED.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
}

func expired(id string) error {
	return errors.New(errors.ErrCodeSessionExpired, "session %q has expired", id)
}
