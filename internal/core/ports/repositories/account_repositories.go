package repositories

import (
	"context"

	"github.com/corebank/bank_ledger/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate if an
	// account with the same account number already exists; the uniqueness
	// check must be enforced transactionally, not by a preceding read.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account by its opaque identifier.
	// Returns apperrors.ErrNotFound if no such account exists.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its unique account number
	// (exact equality). Returns apperrors.ErrNotFound if no such account exists.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}
