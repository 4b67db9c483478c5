// Package profile persists enrolled user profiles.
//
// Each profile is msgpack-encoded, sealed with the record Box, and
// stored under ["profile", username]. The store owns all profile
// mutation; other components read through it.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/voxkit/voxkit/pkg/kv"
	"github.com/voxkit/voxkit/pkg/secret"
	"github.com/voxkit/voxkit/pkg/vec"
)

// Sentinel errors.
var (
	// ErrExists is returned by Put when the username is already enrolled.
	ErrExists = errors.New("profile: already exists")

	// ErrNotFound is returned when no profile exists for a username.
	ErrNotFound = errors.New("profile: not found")
)

// Profile is an enrolled user's stored record. Username is the
// immutable key; LastLogin is the only field mutated after enrollment.
type Profile struct {
	Username string `msgpack:"username" json:"username"`

	// Embedding is the voice embedding captured at enrollment.
	// Empty for password-only profiles.
	Embedding []float32 `msgpack:"embedding,omitempty" json:"-"`

	// PasswordHash is the bcrypt hash for the password auth strategy.
	// Empty for voice-only profiles.
	PasswordHash []byte `msgpack:"password_hash,omitempty" json:"-"`

	// Label is the display fingerprint of the embedding ("voice:A3F8").
	Label string `msgpack:"label,omitempty" json:"label,omitempty"`

	CreatedAt time.Time `msgpack:"created_at" json:"created_at"`
	LastLogin time.Time `msgpack:"last_login,omitempty" json:"last_login,omitzero"`
}

// Store reads and writes profiles. Safe for concurrent use; writes are
// serialized, reads may proceed in parallel.
type Store struct {
	mu  sync.RWMutex
	kv  kv.Store
	box *secret.Box
	dim int
}

// NewStore creates a profile store over the given backend. dim is the
// embedding dimension enforced on every insert.
func NewStore(store kv.Store, box *secret.Box, dim int) *Store {
	return &Store{kv: store, box: box, dim: dim}
}

// Dim returns the configured embedding dimension.
func (s *Store) Dim() int { return s.dim }

func key(username string) kv.Key {
	return kv.Key{"profile", username}
}

// Put enrolls a new profile. Returns ErrExists if the username is
// taken, or a vec validation error if the embedding is present and
// unusable.
func (s *Store) Put(ctx context.Context, p *Profile) error {
	if p.Username == "" {
		return errors.New("profile: empty username")
	}
	if len(p.Embedding) > 0 {
		if err := vec.Check(p.Embedding, s.dim); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.kv.Get(ctx, key(p.Username)); err == nil {
		return ErrExists
	} else if !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return s.write(ctx, p)
}

// Get returns the profile for a username, or ErrNotFound.
func (s *Store) Get(ctx context.Context, username string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx, username)
}

// Touch records a successful authentication at time t.
func (s *Store) Touch(ctx context.Context, username string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read(ctx, username)
	if err != nil {
		return err
	}
	p.LastLogin = t
	return s.write(ctx, p)
}

// Delete removes a profile. Returns ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.kv.Get(ctx, key(username)); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.kv.Delete(ctx, key(username))
}

// List returns all profiles sorted by username. The sorted order is
// what makes authentication tie-breaks deterministic.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Profile
	for e, err := range s.kv.List(ctx, kv.Key{"profile"}) {
		if err != nil {
			return nil, err
		}
		p, err := s.decode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", e.Key, err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Len returns the number of enrolled profiles.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, err := range s.kv.List(ctx, kv.Key{"profile"}) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// read loads and unseals a single profile. Callers hold the lock.
func (s *Store) read(ctx context.Context, username string) (*Profile, error) {
	blob, err := s.kv.Get(ctx, key(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.decode(blob)
}

// write seals and persists a profile. Callers hold the lock.
func (s *Store) write(ctx context.Context, p *Profile) error {
	raw, err := msgpack.Marshal(p)
	if err != nil {
		return err
	}
	blob, err := s.box.Seal(raw)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key(p.Username), blob)
}

func (s *Store) decode(blob []byte) (*Profile, error) {
	raw, err := s.box.Open(blob)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
