// Package core wires the storage, authentication, session, and
// matching components into one runtime. The command tree and any
// embedding host build a Core and talk to its fields; nothing below
// this package knows about configuration files or flags.
package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/voxkit/voxkit/pkg/auth"
	"github.com/voxkit/voxkit/pkg/grammar"
	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/kv"
	"github.com/voxkit/voxkit/pkg/profile"
	"github.com/voxkit/voxkit/pkg/resolver"
	"github.com/voxkit/voxkit/pkg/secret"
	"github.com/voxkit/voxkit/pkg/session"
	"github.com/voxkit/voxkit/pkg/vec"
)

// Authentication modes.
const (
	ModeVoice    = "voice"
	ModePassword = "password"
)

// Fingerprinter geometry. Fixed so enrolled labels stay stable across
// restarts and upgrades.
const (
	fingerprintBits = 16
	fingerprintSeed = 0x766f786b6974 // "voxkit"
)

// Config carries everything Open needs. The CLI translates its on-disk
// configuration into this; embedding hosts fill it directly.
type Config struct {
	// DataDir holds the key file and the database. Required unless
	// InMemory is set.
	DataDir string

	// InMemory keeps all records in process memory. Tests only.
	InMemory bool

	// AuthMode is ModeVoice or ModePassword. Empty means ModeVoice.
	AuthMode string

	// EmbeddingDim is the voice embedding dimension. Must be positive
	// in voice mode.
	EmbeddingDim int

	// VoiceThreshold overrides the biometric acceptance threshold when
	// in (0, 1].
	VoiceThreshold float64

	// MatchThreshold overrides the intent match threshold when in
	// (0, 1].
	MatchThreshold float64

	// SessionTTL overrides the session lifetime when positive.
	SessionTTL time.Duration

	// GrammarFile is an optional grammar YAML path. Empty means the
	// built-in grammar.
	GrammarFile string
}

// Core is the assembled runtime. Fields are read-only after Open.
type Core struct {
	KV       kv.Store
	Box      *secret.Box
	Profiles *profile.Store
	Auth     auth.Authenticator
	Sessions *session.Manager
	Grammar  *grammar.Grammar
	Matcher  *intent.Matcher
	Resolver *resolver.Resolver
}

// Open assembles a Core from cfg. The caller owns the returned Core
// and must Close it.
func Open(cfg Config) (*Core, error) {
	mode := cfg.AuthMode
	if mode == "" {
		mode = ModeVoice
	}
	if mode != ModeVoice && mode != ModePassword {
		return nil, fmt.Errorf("core: unknown auth mode %q", mode)
	}
	if mode == ModeVoice && cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("core: embedding dimension must be positive, got %d", cfg.EmbeddingDim)
	}

	var store kv.Store
	var key []byte
	var err error
	if cfg.InMemory {
		store = kv.NewMemory()
		key = make([]byte, secret.KeySize)
	} else {
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("core: data directory required")
		}
		key, err = secret.LoadOrCreateKey(filepath.Join(cfg.DataDir, "master.key"))
		if err != nil {
			return nil, err
		}
		store, err = kv.OpenBadger(kv.BadgerOptions{Dir: filepath.Join(cfg.DataDir, "db")})
		if err != nil {
			return nil, err
		}
	}

	box, err := secret.NewBox(key)
	if err != nil {
		store.Close()
		return nil, err
	}

	g := grammar.Default()
	if cfg.GrammarFile != "" {
		if g, err = grammar.LoadFile(cfg.GrammarFile); err != nil {
			store.Close()
			return nil, err
		}
	}

	c := &Core{
		KV:       store,
		Box:      box,
		Profiles: profile.NewStore(store, box, cfg.EmbeddingDim),
		Sessions: session.NewManager(store, box, session.WithTTL(cfg.SessionTTL)),
		Grammar:  g,
	}

	switch mode {
	case ModeVoice:
		fp := newFingerprinter(cfg.EmbeddingDim)
		c.Auth = auth.NewVoice(c.Profiles,
			auth.WithThreshold(cfg.VoiceThreshold),
			auth.WithFingerprinter(fp))
	case ModePassword:
		c.Auth = auth.NewPassword(c.Profiles)
	}

	var mopts []intent.Option
	if cfg.MatchThreshold > 0 {
		mopts = append(mopts, intent.WithThreshold(cfg.MatchThreshold))
	}
	c.Matcher = intent.NewMatcher(g, mopts...)
	c.Resolver = resolver.New(c.Sessions, c.Matcher)
	return c, nil
}

// Close releases the underlying store.
func (c *Core) Close() error {
	return c.KV.Close()
}

func newFingerprinter(dim int) *vec.Fingerprinter {
	return vec.NewFingerprinter(dim, fingerprintBits, fingerprintSeed)
}
