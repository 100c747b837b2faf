// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
)

// ErrEmptyPassword is returned when Hash is called with an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// A weighted semaphore bounds how many bcrypt computations run at once so a
// burst of registrations cannot monopolise every scheduler thread.
type bcryptHasher struct {
	cost    int
	workers *semaphore.Weighted
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	workers := int64(1)
	if cfg != nil && cfg.Auth != nil {
		if cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
			cost = cfg.Auth.BcryptCost
		}
		if cfg.Auth.HashWorkers > 0 {
			workers = int64(cfg.Auth.HashWorkers)
		}
	}

	return &bcryptHasher{
		cost:    cost,
		workers: semaphore.NewWeighted(workers),
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation. The context only bounds the
// wait for a worker slot; once started, a hash runs to completion.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", errors.WithStack(ErrEmptyPassword)
	}

	if err := h.workers.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "failed to acquire hash worker")
	}
	defer h.workers.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate bcrypt hash")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash. bcrypt re-derives
// the digest from the salt and cost embedded in the hash and compares in
// constant time, so a malformed hash simply reports a mismatch.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}
