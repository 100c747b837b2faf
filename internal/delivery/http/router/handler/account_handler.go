// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"gatekeeper/internal/delivery/http/middleware"
	"gatekeeper/internal/delivery/http/response"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// accountPayload is the public shape of an account. The password hash never
// appears in any response.
type accountPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// tokenPayload is the login success body.
type tokenPayload struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(domainerrors.ErrInvalidInput)
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := accountPayload{ID: output.Account.ID, Username: output.Account.Username}

	return response.Success(c, http.StatusCreated, payload, "Account registered successfully")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(domainerrors.ErrInvalidInput)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := tokenPayload{
		Token:     output.AccessToken,
		ExpiresIn: int64(output.ExpiresIn.Seconds()),
	}

	return response.Success(c, http.StatusOK, payload, "Login successful")
}

// GetProfile returns the identity behind the caller's bearer token.
// It sits behind AuthMiddleware.Authenticate, which placed the claims on the context.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	accountID, ok := c.Get(middleware.ContextKeyAccountID).(int64)
	if !ok {
		return errors.WithStack(domainerrors.ErrTokenInvalid)
	}

	account, err := h.uc.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := accountPayload{ID: account.ID, Username: account.Username}

	return response.Success(c, http.StatusOK, payload, "Profile retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
