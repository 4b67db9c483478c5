package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxkit/voxkit/pkg/profile"
	"github.com/voxkit/voxkit/pkg/vec"
)

// DefaultThreshold is the minimum cosine similarity for a voice match.
// It trades false acceptance against false rejection; microphone and
// environment variance shift the optimal point, so it stays tunable.
const DefaultThreshold = 0.75

// Voice authenticates by comparing a presented voice embedding against
// every enrolled profile and accepting the best match above the
// threshold.
type Voice struct {
	profiles  *profile.Store
	threshold float64
	fp        *vec.Fingerprinter
	now       func() time.Time
}

// VoiceOption configures a Voice authenticator.
type VoiceOption func(*Voice)

// WithThreshold overrides the acceptance threshold. Values outside
// (0, 1] are ignored.
func WithThreshold(t float64) VoiceOption {
	return func(v *Voice) {
		if t > 0 && t <= 1 {
			v.threshold = t
		}
	}
}

// WithFingerprinter attaches a fingerprinter so enrolled profiles get a
// display label.
func WithFingerprinter(fp *vec.Fingerprinter) VoiceOption {
	return func(v *Voice) { v.fp = fp }
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) VoiceOption {
	return func(v *Voice) { v.now = now }
}

// NewVoice creates a voice authenticator over the given profile store.
func NewVoice(profiles *profile.Store, opts ...VoiceOption) *Voice {
	v := &Voice{
		profiles:  profiles,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Threshold returns the active acceptance threshold.
func (v *Voice) Threshold() float64 { return v.threshold }

// Enroll registers username with the presented embedding.
func (v *Voice) Enroll(ctx context.Context, username string, cred Credential) error {
	if err := vec.Check(cred.Embedding, v.profiles.Dim()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmbedding, err)
	}

	p := &profile.Profile{
		Username:  username,
		Embedding: cred.Embedding,
		CreatedAt: v.now(),
	}
	if v.fp != nil {
		p.Label = vec.Label(v.fp.Fingerprint(cred.Embedding))
	}

	if err := v.profiles.Put(ctx, p); err != nil {
		if err == profile.ErrExists {
			return ErrAlreadyEnrolled
		}
		return err
	}
	slog.Info("user enrolled", "username", username, "label", p.Label)
	return nil
}

// Authenticate scans all enrolled profiles and returns the best match
// at or above the threshold. Profiles are scanned in sorted username
// order and only a strictly better score displaces the current best,
// so equal scores resolve to the lexicographically first username.
func (v *Voice) Authenticate(ctx context.Context, cred Credential) (string, float64, error) {
	if err := vec.Check(cred.Embedding, v.profiles.Dim()); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidEmbedding, err)
	}

	all, err := v.profiles.List(ctx)
	if err != nil {
		return "", 0, err
	}

	var bestUser string
	var bestScore float64
	for _, p := range all {
		if len(p.Embedding) == 0 {
			continue
		}
		score := vec.Cosine(cred.Embedding, p.Embedding)
		if score > bestScore {
			bestScore = score
			bestUser = p.Username
		}
	}

	if bestUser == "" || bestScore < v.threshold {
		slog.Debug("voice authentication rejected", "best_score", bestScore)
		return "", bestScore, ErrRejected
	}

	if err := v.profiles.Touch(ctx, bestUser, v.now()); err != nil {
		return "", 0, err
	}
	slog.Info("user authenticated", "username", bestUser, "score", bestScore)
	return bestUser, bestScore, nil
}
