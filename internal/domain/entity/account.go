// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Account is the core entity in the system, representing a registered
// credential holder. Accounts are immutable once created and live for the
// process lifetime; the repository is their sole owner.
type Account struct {
	ID           int64     // Monotonically assigned identifier, never reused.
	Username     string    // Unique login identifier, case-sensitive as provided.
	PasswordHash string    // Opaque bcrypt output; the plaintext is never stored.
	CreatedAt    time.Time // Timestamp of when this account was created.
}
