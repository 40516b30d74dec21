package repositories

import (
	"context"

	"github.com/corebank/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceGuard asks a guarded append to verify, inside the serialized span,
// that the named account can afford the given debit before anything is written.
type BalanceGuard struct {
	AccountID string
	Amount    decimal.Decimal
}

// LedgerRepository defines persistence operations for the append-only
// transaction log.
type LedgerRepository interface {
	// AppendEntries durably records all entries or none of them.
	AppendEntries(ctx context.Context, entries []domain.Transaction) error

	// AppendEntriesGuarded behaves like AppendEntries but first serializes
	// against every account the entries touch (locks taken in sorted account
	// id order) and re-derives the guard account's balance under that lock.
	// If the balance is smaller than guard.Amount, nothing is written and
	// apperrors.ErrInsufficientBalance is returned. Lock acquisition is
	// bounded; contention surfaces as apperrors.ErrConflict.
	AppendEntriesGuarded(ctx context.Context, entries []domain.Transaction, guard BalanceGuard) error

	// ListEntriesByAccount returns every entry owned by the account, ordered
	// by occurredAt ascending (ties broken by transaction id).
	ListEntriesByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListEntriesByAccountPaged returns a most-recent-first page of entries
	// plus an opaque token for the next page, or nil when exhausted.
	ListEntriesByAccountPaged(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
