// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
)

// Verification failure sentinels. The HTTP boundary collapses all three to a
// single unauthorized response; only server-side logs keep the distinction.
var (
	// ErrTokenMalformed indicates the token could not be parsed at all.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenSignatureInvalid indicates the signature does not match the
	// process secret. A token signed with a different secret and a tampered
	// token are indistinguishable here.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")

	// ErrTokenExpired indicates a well-formed, correctly signed token whose
	// expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret    []byte        // Process-wide signing secret, immutable after startup.
	accessTTL time.Duration // Time-to-live for access tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Token == nil || cfg.Token.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.Token.AccessTTL
	if ttl == 0 {
		ttl = time.Hour
	}

	return &jwtService{
		secret:    []byte(cfg.Token.Secret),
		accessTTL: ttl,
	}, nil
}

// Issue creates a signed access token for the given account. The signature
// covers the full claim set, timestamps included, so expiry cannot be
// tampered with without invalidating the token.
func (s *jwtService) Issue(account *entity.Account) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		AccountID: account.ID,
		Username:  account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks structure, signature, and expiry, in that order, and returns
// the embedded claims on success.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classifyVerifyError(err)
	}
	if !token.Valid {
		return nil, errors.WithStack(ErrTokenSignatureInvalid)
	}

	return claims, nil
}

// AccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

// classifyVerifyError maps jwt library errors onto the package sentinels.
func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Wrap(ErrTokenMalformed, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return errors.Wrap(ErrTokenSignatureInvalid, err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(ErrTokenExpired, err.Error())
	default:
		return errors.Wrap(err, "failed to verify token")
	}
}
