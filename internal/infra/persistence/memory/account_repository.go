// Package memory provides the volatile, process-lifetime implementation of
// the persistence interfaces. Losing the store on restart is an accepted
// design property of the service, not a flaw.
package memory

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/errors"
)

// accountRepository keeps all accounts in a username-keyed map guarded by a
// single RWMutex. The mutex is held only around map access, never across
// password hashing or token work.
type accountRepository struct {
	mu     sync.RWMutex
	byName map[string]*entity.Account
	byID   map[int64]*entity.Account
	lastID int64
}

// NewAccountRepository is the constructor for the in-memory account repository.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		byName: make(map[string]*entity.Account),
		byID:   make(map[int64]*entity.Account),
	}
}

// Exists reports whether the username is already registered.
func (r *accountRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[username]

	return ok, nil
}

// Create performs the duplicate check and the insert as one critical section,
// so concurrent registrations for the same username yield exactly one account.
// IDs are monotonically assigned and never reused.
func (r *accountRepository) Create(_ context.Context, username, passwordHash string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[username]; ok {
		return nil, errors.WithStack(repository.ErrDuplicateUsername)
	}

	r.lastID++
	account := &entity.Account{
		ID:           r.lastID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.byName[username] = account
	r.byID[account.ID] = account

	return cloneAccount(account), nil
}

// FindByUsername retrieves an account by its username.
func (r *accountRepository) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byName[username]
	if !ok {
		return nil, errors.WithStack(repository.ErrAccountNotFound)
	}

	return cloneAccount(account), nil
}

// FindByID retrieves an account by its identifier.
func (r *accountRepository) FindByID(_ context.Context, id int64) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrAccountNotFound)
	}

	return cloneAccount(account), nil
}

// cloneAccount returns a copy so callers never hold references into the
// repository's own records.
func cloneAccount(account *entity.Account) *entity.Account {
	copied := *account

	return &copied
}
