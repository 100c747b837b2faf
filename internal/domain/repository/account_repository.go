// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// ErrDuplicateUsername is returned by Create when the username is already registered.
var ErrDuplicateUsername = errors.New("username already registered")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete
// implementation, so the volatile in-memory store can later be swapped for a
// durable one without touching the use cases.
type AccountRepository interface {
	// Exists reports whether an account with the given username is registered.
	Exists(ctx context.Context, username string) (bool, error)

	// Create persists a new account. The duplicate check and the insert are a
	// single atomic step: two concurrent Create calls for the same username
	// yield exactly one account and one ErrDuplicateUsername.
	Create(ctx context.Context, username, passwordHash string) (*entity.Account, error)

	// FindByUsername retrieves a single account by its username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByID retrieves a single account by its identifier.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// Accounts are immutable in this system: no Update or Delete.
}
