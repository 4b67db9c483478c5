// Package resolver composes session validation and intent matching
// into the single operation the rest of the system calls.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/session"
)

// ErrUnauthorized is returned when the presented token is invalid or
// expired. Outside a genuine expiry race it signals a caller bug.
var ErrUnauthorized = errors.New("resolver: unauthorized")

// Matcher is the intent-matching dependency. *intent.Matcher satisfies
// it; tests substitute a recording fake.
type Matcher interface {
	Resolve(text string) (*intent.Command, error)
}

// Resolver authorizes and resolves recognized text. Authorization
// strictly precedes matching: no resolution work happens for an
// invalid token, not even for diagnostics.
type Resolver struct {
	sessions *session.Manager
	matcher  Matcher
}

// New creates a Resolver.
func New(sessions *session.Manager, matcher Matcher) *Resolver {
	return &Resolver{sessions: sessions, matcher: matcher}
}

// ResolveAuthorized validates token and, on a live session, delegates
// to the matcher and returns its result unchanged. Invalid and expired
// tokens yield ErrUnauthorized.
func (r *Resolver) ResolveAuthorized(ctx context.Context, token, text string) (*intent.Command, error) {
	username, err := r.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalid) || errors.Is(err, session.ErrExpired) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	cmd, err := r.matcher.Resolve(text)
	if err != nil {
		return nil, err
	}
	slog.Debug("command resolved",
		"username", username,
		"category", cmd.Category,
		"intent", cmd.Intent,
		"confidence", cmd.Confidence)
	return cmd, nil
}
