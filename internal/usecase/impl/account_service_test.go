package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
	"gatekeeper/internal/infra/auth"
	"gatekeeper/internal/infra/persistence/memory"
	"gatekeeper/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:  bcrypt.MinCost,
			HashWorkers: 4,
		},
		Token: &config.TokenConfig{
			Secret:    "test_secret_key_very_long_for_testing",
			AccessTTL: time.Minute,
		},
	}
}

// createTestAccountService wires the service against the real in-memory
// repository, bcrypt at minimum cost, and the real token service.
func createTestAccountService(t *testing.T) usecase.AccountUsecase {
	t.Helper()

	cfg := newTestConfig()
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAccountService(AccountServiceParams{
		AccountRepo:  memory.NewAccountRepository(),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})
}

func TestAccountService_RegisterLoginAuthorizeRoundTrip(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.Account.ID)
	assert.Equal(t, "alice", registered.Account.Username)

	loggedIn, err := svc.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.AccessToken)
	assert.Equal(t, time.Minute, loggedIn.ExpiresIn)

	claims, err := svc.Authorize(ctx, loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.AccountID)
	assert.Equal(t, "alice", claims.Username)

	// Authorization does not consume the token.
	again, err := svc.Authorize(ctx, loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.AccountID, again.AccountID)
}

func TestAccountService_RegisterInvalidInput(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	cases := []*usecase.RegisterInput{
		nil,
		{Username: "", Password: "s3cret!"},
		{Username: "alice", Password: ""},
	}
	for _, input := range cases {
		output, err := svc.Register(ctx, input)
		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
	}
}

func TestAccountService_RegisterDuplicate(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	// Same username fails regardless of password.
	output, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "different"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
}

func TestAccountService_RegisterConcurrentSameUsername(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	const attempts = 16

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrUsernameTaken):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
}

func TestAccountService_LoginEnumerationResistance(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "wrong"})
	require.Error(t, wrongPassword)
	_, unknownUser := svc.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "anything"})
	require.Error(t, unknownUser)

	// Both failures collapse to the identical error so a caller cannot tell
	// a missing user from a wrong password.
	assert.True(t, errors.Is(wrongPassword, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownUser, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAccountService_LoginInvalidInput(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	output, err := svc.Login(ctx, &usecase.LoginInput{Username: "", Password: ""})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestAccountService_AuthorizeGarbageToken(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	claims, err := svc.Authorize(ctx, "not-a-token")
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestAccountService_GetProfile(t *testing.T) {
	svc := createTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	account, err := svc.GetProfile(ctx, registered.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	missing, err := svc.GetProfile(ctx, 999)
	require.Error(t, err)
	assert.Nil(t, missing)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

// failingHasher stands in for a hasher whose infrastructure is broken.
type failingHasher struct{}

func (failingHasher) Hash(context.Context, string) (string, error) {
	return "", errors.New("entropy source unavailable")
}

func (failingHasher) Check(string, string) bool { return false }

type failingTokenService struct{}

func (failingTokenService) Issue(*entity.Account) (string, error) {
	return "", errors.New("signing backend unavailable")
}

func (failingTokenService) Verify(string) (*service.Claims, error) {
	return nil, errors.New("signing backend unavailable")
}

func (failingTokenService) AccessTokenDuration() time.Duration { return time.Minute }

func TestAccountService_HasherFailureSurfacesAsInternal(t *testing.T) {
	cfg := newTestConfig()
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	svc := NewAccountService(AccountServiceParams{
		AccountRepo:  memory.NewAccountRepository(),
		Hasher:       failingHasher{},
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	output, err := svc.Register(context.Background(), &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInternalError))

	// A failed registration leaves no account behind: the username is still free.
	_, loginErr := svc.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret!"})
	assert.True(t, errors.Is(loginErr, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_SignerFailureSurfacesAsInternal(t *testing.T) {
	cfg := newTestConfig()
	repo := memory.NewAccountRepository()

	working := NewAccountService(AccountServiceParams{
		AccountRepo:  repo,
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: failingTokenService{},
		Logger:       newDiscardLogger(),
	})

	_, err := working.Register(context.Background(), &usecase.RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	output, err := working.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret!"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInternalError))
}
