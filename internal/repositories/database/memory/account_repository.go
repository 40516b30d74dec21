package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
)

// MemAccountRepository is an in-memory AccountRepository. Reads return
// copies so callers cannot mutate stored state.
type MemAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.Account
	byNumber map[string]string // account number -> account id
}

func newMemAccountRepository() *MemAccountRepository {
	return &MemAccountRepository{
		byID:     make(map[string]domain.Account),
		byNumber: make(map[string]string),
	}
}

// Ensure MemAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*MemAccountRepository)(nil)

// SaveAccount inserts a new account. The duplicate check and the insert
// happen under one lock, so racing registrations of the same number
// produce exactly one account.
func (r *MemAccountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNumber[account.AccountNumber]; exists {
		return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
	}
	r.byID[account.AccountID] = account
	r.byNumber[account.AccountNumber] = account.AccountID
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *MemAccountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := account
	return &cp, nil
}

// FindAccountByNumber retrieves an account by its unique account number.
func (r *MemAccountRepository) FindAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accountID, ok := r.byNumber[accountNumber]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := r.byID[accountID]
	return &cp, nil
}

// exists reports whether the account id is known, for the ledger repository's
// referential check.
func (r *MemAccountRepository) exists(accountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[accountID]
	return ok
}
