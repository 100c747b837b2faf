// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The context
	// bounds the wait for a hashing slot, not the hash itself; a hash that
	// has started always runs to completion.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// It returns false, never an error, on a malformed hash.
	Check(password, hash string) bool
}
