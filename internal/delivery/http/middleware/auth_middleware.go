package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/usecase"
)

const (
	// ContextKeyAccountID is the echo context key carrying the authorized account id.
	ContextKeyAccountID = "accountID"

	// ContextKeyUsername is the echo context key carrying the authorized username.
	ContextKeyUsername = "username"

	bearerScheme = "Bearer "
)

// AuthMiddleware guards routes behind bearer-token authorization.
type AuthMiddleware struct {
	uc usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(uc usecase.AccountUsecase) *AuthMiddleware {
	return &AuthMiddleware{uc: uc}
}

// Authenticate validates the bearer token on the request. A request with no
// usable Authorization header is forbidden; a request whose token fails
// verification is unauthorized. Handlers behind this middleware can read the
// identity from the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return errors.WithStack(domainerrors.ErrTokenMissing)
		}

		tokenString := strings.TrimPrefix(authHeader, bearerScheme)
		if tokenString == authHeader || tokenString == "" {
			return errors.WithStack(domainerrors.ErrTokenMissing)
		}

		claims, err := m.uc.Authorize(c.Request().Context(), tokenString)
		if err != nil {
			return errors.WithStack(err)
		}

		c.Set(ContextKeyAccountID, claims.AccountID)
		c.Set(ContextKeyUsername, claims.Username)

		return next(c)
	}
}
