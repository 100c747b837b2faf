// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
	"gatekeeper/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates account creation: validate, hash, then insert.
// The expensive bcrypt work happens before the repository's critical section,
// so concurrent registrations never serialize on hashing. The insert itself
// re-checks the username atomically, which settles any race between two
// registrations for the same name.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input == nil || input.Username == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput)
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	// Cheap pre-check so an obviously taken username skips the bcrypt cost.
	taken, err := srv.accountRepo.Exists(ctx, input.Username)
	if err != nil {
		srv.log(ctx).Error("Failed to check username availability", slog.String("username", input.Username), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to check username availability")
	}
	if taken {
		srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

		return nil, errors.WithStack(domainerrors.ErrUsernameTaken)
	}

	passwordHash, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.String("username", input.Username), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to hash password")
	}

	account, err := srv.accountRepo.Create(ctx, input.Username, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			srv.log(ctx).Warn("Registration lost creation race", slog.String("username", input.Username))

			return nil, errors.WithStack(domainerrors.ErrUsernameTaken)
		}
		srv.log(ctx).Error("Failed to create account", slog.String("username", input.Username), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to create account")
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("accountID", account.ID))

	return &usecase.RegisterOutput{Account: account}, nil
}

// Login verifies credentials and issues an access token. A missing account
// and a wrong password both return ErrInvalidCredentials so the response
// never reveals whether the username exists.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil || input.Username == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput)
	}

	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	account, err := srv.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed, unknown username", slog.String("username", input.Username))

			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		}
		srv.log(ctx).Error("Failed to load account for login", slog.String("username", input.Username), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to load account")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("username", input.Username))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	accessToken, err := srv.tokenService.Issue(account)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("username", input.Username), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to issue token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Int64("accountID", account.ID))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		ExpiresIn:   srv.tokenService.AccessTokenDuration(),
		Account:     account,
	}, nil
}

// Authorize verifies a bearer token and returns the embedded claims. The
// malformed/signature/expired distinction stays in the logs; callers only
// ever see ErrTokenInvalid.
func (srv *accountService) Authorize(ctx context.Context, tokenString string) (*service.Claims, error) {
	claims, err := srv.tokenService.Verify(tokenString)
	if err != nil {
		srv.log(ctx).Warn("Token verification failed", slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrTokenInvalid)
	}

	return claims, nil
}

// GetProfile loads the account referenced by authorized claims.
func (srv *accountService) GetProfile(ctx context.Context, accountID int64) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Profile requested for missing account", slog.Int64("accountID", accountID))

			return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
		}
		srv.log(ctx).Error("Failed to load account profile", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to load account profile")
	}

	return account, nil
}
