package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/errors"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account, err := repo.Create(ctx, "alice", "hashed")
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "hashed", account.PasswordHash)
	assert.False(t, account.CreatedAt.IsZero())

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestAccountRepository_Exists(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Create(ctx, "alice", "hashed")
	require.NoError(t, err)

	ok, err = repo.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	// Usernames are case-sensitive as provided.
	ok, err = repo.Exists(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountRepository_DuplicateUsername(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hash-one")
	require.NoError(t, err)

	dup, err := repo.Create(ctx, "alice", "hash-two")
	require.Error(t, err)
	assert.Nil(t, dup)
	assert.True(t, errors.Is(err, repository.ErrDuplicateUsername))

	// The original record is untouched.
	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-one", found.PasswordHash)
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	_, err := repo.FindByUsername(ctx, "ghost")
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

	_, err = repo.FindByID(ctx, 42)
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestAccountRepository_MonotonicIDs(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, "alice", "h")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "bob", "h")
	require.NoError(t, err)
	third, err := repo.Create(ctx, "carol", "h")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}

func TestAccountRepository_ConcurrentCreateSameUsername(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "alice", "hashed")
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
		case errors.Is(err, repository.ErrDuplicateUsername):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "hashed")
	require.NoError(t, err)

	// Mutating the returned value must not affect the stored record.
	created.Username = "mallory"

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
}
