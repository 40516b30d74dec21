package services

import (
	"context"

	"github.com/corebank/bank_ledger/internal/core/domain"
	"github.com/corebank/bank_ledger/internal/dto"
)

// AccountSvcFacade defines the account registration and lookup operations
// exposed to the presentation layer.
type AccountSvcFacade interface {
	// RegisterAccount opens a new account with a unique account number.
	// Surfaces apperrors.ErrDuplicate if the number is already taken.
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error)

	// GetAccountByID retrieves an account; apperrors.ErrNotFound if missing.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its human-facing number.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}
