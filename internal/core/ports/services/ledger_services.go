package services

import (
	"context"

	"github.com/corebank/bank_ledger/internal/core/domain"
	"github.com/corebank/bank_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade defines the money-movement operations and derived reads
// exposed to the presentation layer. Callers arrive already authenticated
// and amounts are already known to be well-formed positive decimals.
type LedgerSvcFacade interface {
	// Deposit appends one Credit entry for amount.
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// Withdraw appends one Debit entry for amount unless it would overdraw
	// the account.
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// Transfer atomically appends a TransferOut entry on the source account
	// and a TransferIn entry on the destination account, both carrying the
	// same amount and timestamp.
	Transfer(ctx context.Context, sourceAccountID string, destinationAccountNumber string, amount decimal.Decimal) error

	// GetBalance derives the account's current balance from its entries.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetHistory returns the account's entries most-recent-first.
	GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListTransactions returns a most-recent-first page of the account's
	// entries with an opaque continuation token.
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
