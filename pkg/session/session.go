// Package session issues, validates, and revokes time-bounded session
// tokens.
//
// Each session record is msgpack-encoded, sealed with the record Box,
// and stored under ["session", token]; a reverse index at
// ["sessuser", username] enforces the single-active-session invariant.
// Expiry is lazy: no timers, the deadline is checked on Validate.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/voxkit/voxkit/pkg/kv"
	"github.com/voxkit/voxkit/pkg/secret"
)

// Sentinel errors.
var (
	// ErrInvalid is returned for unknown, corrupt, or revoked tokens.
	ErrInvalid = errors.New("session: invalid token")

	// ErrExpired is returned the first time an expired token is
	// validated. The record is revoked as a side effect, so the next
	// Validate returns ErrInvalid.
	ErrExpired = errors.New("session: expired")
)

// DefaultTTL is the session lifetime.
const DefaultTTL = 30 * time.Minute

// Session is the stored authorization record. Active sessions move to
// Revoked (logout or superseding login) or expire; both states are
// terminal.
type Session struct {
	ID        string    `msgpack:"id" json:"id"`
	Username  string    `msgpack:"username" json:"username"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at"`
	ExpiresAt time.Time `msgpack:"expires_at" json:"expires_at"`
	Revoked   bool      `msgpack:"revoked" json:"revoked"`
}

// Manager owns all session state. Safe for concurrent use; creation
// and revocation are atomic with respect to the single-session
// invariant.
type Manager struct {
	mu  sync.Mutex
	kv  kv.Store
	box *secret.Box
	ttl time.Duration
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides the session lifetime. Non-positive values are
// ignored.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager over the given backend.
func NewManager(store kv.Store, box *secret.Box, opts ...Option) *Manager {
	m := &Manager{
		kv:  store,
		box: box,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sessKey(token string) kv.Key    { return kv.Key{"session", token} }
func userKey(username string) kv.Key { return kv.Key{"sessuser", username} }

// Create issues a fresh token for username, revoking any live session
// the user already holds. The returned token is opaque; callers must
// not parse it.
func (m *Manager) Create(ctx context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Superseding login: revoke the previous session first.
	if prev, err := m.openIndex(ctx, username); err == nil && prev != "" {
		if s, err := m.load(ctx, prev); err == nil && !s.Revoked {
			s.Revoked = true
			if err := m.store(ctx, s); err != nil {
				return "", err
			}
			slog.Debug("session superseded", "username", username)
		}
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store(ctx, s); err != nil {
		return "", err
	}
	if err := m.writeIndex(ctx, username, s.ID); err != nil {
		return "", err
	}
	slog.Info("session created", "username", username, "expires_at", s.ExpiresAt)
	return s.ID, nil
}

// Validate checks a token and returns the owning username. Expired
// tokens are revoked on first sight so a second check reports
// ErrInvalid.
func (m *Manager) Validate(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, token)
	if err != nil {
		return "", ErrInvalid
	}
	if s.Revoked {
		return "", ErrInvalid
	}
	if m.now().After(s.ExpiresAt) {
		s.Revoked = true
		if err := m.store(ctx, s); err != nil {
			return "", err
		}
		return "", ErrExpired
	}
	return s.Username, nil
}

// Revoke marks a token revoked. Idempotent: unknown and already
// revoked tokens are not errors.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, token)
	if err != nil {
		return nil
	}
	if s.Revoked {
		return nil
	}
	s.Revoked = true
	if err := m.store(ctx, s); err != nil {
		return err
	}
	slog.Info("session revoked", "username", s.Username)
	return nil
}

// PurgeExpired deletes revoked and expired records. Lazy expiry keeps
// correctness without this; the sweep only reclaims space.
func (m *Manager) PurgeExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var stale []string
	for e, err := range m.kv.List(ctx, kv.Key{"session"}) {
		if err != nil {
			return 0, err
		}
		s, err := m.decode(e.Value)
		if err != nil {
			// Undecryptable records are dead weight either way.
			stale = append(stale, e.Key[len(e.Key)-1])
			continue
		}
		if s.Revoked || now.After(s.ExpiresAt) {
			stale = append(stale, s.ID)
		}
	}
	for _, id := range stale {
		if err := m.kv.Delete(ctx, sessKey(id)); err != nil {
			return 0, err
		}
	}
	if len(stale) > 0 {
		slog.Info("purged sessions", "count", len(stale))
	}
	return len(stale), nil
}

// load reads and unseals a session record.
func (m *Manager) load(ctx context.Context, token string) (*Session, error) {
	blob, err := m.kv.Get(ctx, sessKey(token))
	if err != nil {
		return nil, err
	}
	return m.decode(blob)
}

func (m *Manager) decode(blob []byte) (*Session, error) {
	raw, err := m.box.Open(blob)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// store seals and persists a session record.
func (m *Manager) store(ctx context.Context, s *Session) error {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	blob, err := m.box.Seal(raw)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, sessKey(s.ID), blob)
}

// writeIndex points the user's reverse index at the current token.
func (m *Manager) writeIndex(ctx context.Context, username, token string) error {
	blob, err := m.box.Seal([]byte(token))
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, userKey(username), blob)
}

// openIndex returns the user's current token, if any.
func (m *Manager) openIndex(ctx context.Context, username string) (string, error) {
	blob, err := m.kv.Get(ctx, userKey(username))
	if err != nil {
		return "", err
	}
	raw, err := m.box.Open(blob)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
