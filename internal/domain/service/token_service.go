package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gatekeeper/internal/domain/entity"
)

// Claims defines the custom claims embedded in issued tokens.
type Claims struct {
	AccountID int64  `json:"uid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying signed bearer
// tokens. Tokens are self-contained: validity is decided purely by signature
// and expiry, never by a server-side lookup.
type TokenService interface {
	// Issue creates a signed token binding the account identity to a time
	// window. The signature covers the whole claim set, timestamps included.
	Issue(account *entity.Account) (string, error)

	// Verify checks a token's structure, signature, and expiry, in that
	// order, and returns the embedded claims. Failures are classified with
	// the ErrToken* sentinels from the implementing package.
	Verify(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured token lifetime.
	AccessTokenDuration() time.Duration
}
