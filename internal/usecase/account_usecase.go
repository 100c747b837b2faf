// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/service"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's public identity.
// The password hash never leaves the use case layer.
type RegisterOutput struct {
	Account *entity.Account
}

// LoginOutput returns the issued access token after a successful login.
type LoginOutput struct {
	AccessToken string
	ExpiresIn   time.Duration
	Account     *entity.Account
}

// AccountUsecase defines the interface for credential-related business
// operations. This is the contract the delivery layer depends on.
type AccountUsecase interface {
	// Register creates a new account for an unused username.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues an access token. Unknown
	// usernames and wrong passwords fail identically.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Authorize verifies a bearer token and returns its identity claims.
	// Every verification failure surfaces as the same unauthorized error.
	Authorize(ctx context.Context, tokenString string) (*service.Claims, error)

	// GetProfile loads the account behind previously authorized claims.
	GetProfile(ctx context.Context, accountID int64) (*entity.Account, error)
}
