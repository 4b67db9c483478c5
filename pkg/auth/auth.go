// Package auth authenticates users against the profile store.
//
// Two strategies implement the same Authenticator contract: Voice
// (cosine similarity between a presented embedding and every enrolled
// embedding) and Password (bcrypt). The strategy is chosen at
// configuration time; callers never branch on which one is active.
package auth

import (
	"context"
	"errors"
)

// Sentinel errors. Rejection is a normal outcome, not a fault: callers
// surface it to the user and decide whether to retry capture.
var (
	// ErrAlreadyEnrolled is returned when the username is taken.
	ErrAlreadyEnrolled = errors.New("auth: already enrolled")

	// ErrInvalidEmbedding is returned for malformed or degenerate
	// biometric input. The capture layer owns retries.
	ErrInvalidEmbedding = errors.New("auth: invalid embedding")

	// ErrRejected is returned when no enrolled identity matches.
	ErrRejected = errors.New("auth: rejected")
)

// Credential is what a caller presents to authenticate. Voice uses
// Embedding; Password uses Username and Password. Unused fields are
// ignored by the respective strategy.
type Credential struct {
	Embedding []float32
	Username  string
	Password  string
}

// Authenticator enrolls identities and verifies presented credentials.
type Authenticator interface {
	// Enroll registers a new user. Fails with ErrAlreadyEnrolled or
	// ErrInvalidEmbedding.
	Enroll(ctx context.Context, username string, cred Credential) error

	// Authenticate identifies the user presenting cred and returns the
	// username with a match score in [0, 1]. Returns ErrRejected when
	// no identity matches; the score reported alongside ErrRejected is
	// the best sub-threshold similarity, for diagnostics.
	Authenticate(ctx context.Context, cred Credential) (username string, score float64, err error)
}
