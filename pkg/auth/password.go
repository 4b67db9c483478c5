package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/voxkit/voxkit/pkg/profile"
)

// Password authenticates by username and bcrypt-hashed password. It is
// the fallback strategy for hosts without a usable microphone.
type Password struct {
	profiles *profile.Store
	cost     int
	now      func() time.Time
}

// PasswordOption configures a Password authenticator.
type PasswordOption func(*Password)

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) PasswordOption {
	return func(p *Password) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			p.cost = cost
		}
	}
}

// WithPasswordClock overrides the time source. Tests only.
func WithPasswordClock(now func() time.Time) PasswordOption {
	return func(p *Password) { p.now = now }
}

// NewPassword creates a password authenticator over the given profile
// store.
func NewPassword(profiles *profile.Store, opts ...PasswordOption) *Password {
	p := &Password{
		profiles: profiles,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enroll registers username with the presented password.
func (a *Password) Enroll(ctx context.Context, username string, cred Credential) error {
	if cred.Password == "" {
		return errors.New("auth: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), a.cost)
	if err != nil {
		return err
	}

	err = a.profiles.Put(ctx, &profile.Profile{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    a.now(),
	})
	if errors.Is(err, profile.ErrExists) {
		return ErrAlreadyEnrolled
	}
	return err
}

// Authenticate verifies cred.Password against the stored hash for
// cred.Username. A missing user and a wrong password are both
// ErrRejected, so the caller cannot probe for enrolled usernames.
func (a *Password) Authenticate(ctx context.Context, cred Credential) (string, float64, error) {
	p, err := a.profiles.Get(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", 0, ErrRejected
		}
		return "", 0, err
	}
	if len(p.PasswordHash) == 0 {
		return "", 0, ErrRejected
	}
	if bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(cred.Password)) != nil {
		return "", 0, ErrRejected
	}
	if err := a.profiles.Touch(ctx, p.Username, a.now()); err != nil {
		return "", 0, err
	}
	return p.Username, 1, nil
}
