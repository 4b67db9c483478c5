package auth

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/voxkit/voxkit/pkg/kv"
	"github.com/voxkit/voxkit/pkg/profile"
	"github.com/voxkit/voxkit/pkg/secret"
)

const testDim = 8

func testProfiles(t *testing.T) *profile.Store {
	t.Helper()
	box, err := secret.NewBox(bytes.Repeat([]byte{9}, secret.KeySize))
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	return profile.NewStore(kv.NewMemory(), box, testDim)
}

// unit returns a unit vector pointing along axis i.
func unit(i int) []float32 {
	v := make([]float32, testDim)
	v[i] = 1
	return v
}

// mix returns a normalized blend of two axes; cos(mix(i,j,w), unit(i))
// equals w / sqrt(w²+(1-w)²).
func mix(i, j int, w float32) []float32 {
	v := make([]float32, testDim)
	v[i] = w
	v[j] = 1 - w
	return v
}

func TestEnrollAndAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	if err := a.Enroll(ctx, "alice", Credential{Embedding: unit(0)}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	// The exact enrolling embedding must come back as alice with
	// maximal confidence.
	user, score, err := a.Authenticate(ctx, Credential{Embedding: unit(0)})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user != "alice" {
		t.Errorf("username: want alice, got %q", user)
	}
	if math.Abs(score-1) > 1e-6 {
		t.Errorf("self-similarity score: want 1, got %f", score)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	if err := a.Enroll(ctx, "alice", Credential{Embedding: unit(0)}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	err := a.Enroll(ctx, "alice", Credential{Embedding: unit(1)})
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("duplicate Enroll: want ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollInvalidEmbedding(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	if err := a.Enroll(ctx, "bob", Credential{Embedding: []float32{1}}); !errors.Is(err, ErrInvalidEmbedding) {
		t.Errorf("wrong dim: want ErrInvalidEmbedding, got %v", err)
	}
	if err := a.Enroll(ctx, "bob", Credential{Embedding: make([]float32, testDim)}); !errors.Is(err, ErrInvalidEmbedding) {
		t.Errorf("degenerate: want ErrInvalidEmbedding, got %v", err)
	}
	if _, _, err := a.Authenticate(ctx, Credential{Embedding: nil}); !errors.Is(err, ErrInvalidEmbedding) {
		t.Errorf("authenticate nil: want ErrInvalidEmbedding, got %v", err)
	}
}

func TestAuthenticateRejectsUnrelatedVector(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	if err := a.Enroll(ctx, "alice", Credential{Embedding: unit(0)}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	// Orthogonal vector: similarity 0, well below any threshold.
	user, score, err := a.Authenticate(ctx, Credential{Embedding: unit(1)})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("want ErrRejected, got user=%q err=%v", user, err)
	}
	if score >= a.Threshold() {
		t.Errorf("rejected score %f should be below threshold %f", score, a.Threshold())
	}
}

func TestAuthenticateEmptyStore(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	if _, _, err := a.Authenticate(ctx, Credential{Embedding: unit(0)}); !errors.Is(err, ErrRejected) {
		t.Errorf("empty store: want ErrRejected, got %v", err)
	}
}

func TestAuthenticatePicksBestMatch(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	a.Enroll(ctx, "alice", Credential{Embedding: unit(0)})
	a.Enroll(ctx, "bob", Credential{Embedding: unit(1)})

	// Closer to bob's axis than alice's.
	user, _, err := a.Authenticate(ctx, Credential{Embedding: mix(1, 0, 0.9)})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user != "bob" {
		t.Errorf("want bob, got %q", user)
	}
}

func TestAuthenticateTieBreaksBySortedUsername(t *testing.T) {
	ctx := context.Background()
	a := NewVoice(testProfiles(t))

	// Two users with the identical embedding: tie on score.
	a.Enroll(ctx, "zoe", Credential{Embedding: unit(0)})
	a.Enroll(ctx, "amy", Credential{Embedding: unit(0)})

	for range 10 {
		user, _, err := a.Authenticate(ctx, Credential{Embedding: unit(0)})
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user != "amy" {
			t.Fatalf("tie-break: want amy (first in sorted order), got %q", user)
		}
	}
}

func TestAuthenticateThresholdBoundary(t *testing.T) {
	ctx := context.Background()
	profiles := testProfiles(t)
	a := NewVoice(profiles, WithThreshold(0.9))

	if a.Threshold() != 0.9 {
		t.Fatalf("threshold: want 0.9, got %f", a.Threshold())
	}
	a.Enroll(ctx, "alice", Credential{Embedding: unit(0)})

	// cos = 0.8/sqrt(0.8²+0.2²) ≈ 0.970 ≥ 0.9 → accept.
	if _, _, err := a.Authenticate(ctx, Credential{Embedding: mix(0, 1, 0.8)}); err != nil {
		t.Errorf("score above threshold rejected: %v", err)
	}
	// cos = 0.5/sqrt(0.5²+0.5²) ≈ 0.707 < 0.9 → reject.
	if _, _, err := a.Authenticate(ctx, Credential{Embedding: mix(0, 1, 0.5)}); !errors.Is(err, ErrRejected) {
		t.Errorf("score below threshold accepted: %v", err)
	}
}

func TestAuthenticateUpdatesLastLogin(t *testing.T) {
	ctx := context.Background()
	profiles := testProfiles(t)
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	a := NewVoice(profiles, WithClock(func() time.Time { return at }))

	a.Enroll(ctx, "alice", Credential{Embedding: unit(0)})
	if _, _, err := a.Authenticate(ctx, Credential{Embedding: unit(0)}); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	p, _ := profiles.Get(ctx, "alice")
	if !p.LastLogin.Equal(at) {
		t.Errorf("LastLogin: want %v, got %v", at, p.LastLogin)
	}
}

func TestPasswordStrategy(t *testing.T) {
	ctx := context.Background()
	profiles := testProfiles(t)

	// Both strategies satisfy the same contract.
	var a Authenticator = NewPassword(profiles, WithCost(bcrypt.MinCost))

	if err := a.Enroll(ctx, "alice", Credential{Password: "hunter2"}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := a.Enroll(ctx, "alice", Credential{Password: "other"}); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("duplicate: want ErrAlreadyEnrolled, got %v", err)
	}

	user, score, err := a.Authenticate(ctx, Credential{Username: "alice", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user != "alice" || score != 1 {
		t.Errorf("want alice/1.0, got %q/%f", user, score)
	}

	if _, _, err := a.Authenticate(ctx, Credential{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrRejected) {
		t.Errorf("wrong password: want ErrRejected, got %v", err)
	}
	if _, _, err := a.Authenticate(ctx, Credential{Username: "nobody", Password: "hunter2"}); !errors.Is(err, ErrRejected) {
		t.Errorf("unknown user: want ErrRejected, got %v", err)
	}
}
