package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	"github.com/corebank/bank_ledger/internal/utils/accounting"
	"github.com/corebank/bank_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// MemLedgerRepository is an in-memory LedgerRepository. The entries map is
// append-only; the per-account keyed locks serialize guarded
// check-then-append spans exactly like the Postgres row locks do.
type MemLedgerRepository struct {
	mu              sync.RWMutex
	entries         map[string][]domain.Transaction // account id -> entries, append order
	accounts        *MemAccountRepository
	locks           *keyedLock
	lockWaitTimeout time.Duration
}

func newMemLedgerRepository(accounts *MemAccountRepository, lockWaitTimeout time.Duration) *MemLedgerRepository {
	return &MemLedgerRepository{
		entries:         make(map[string][]domain.Transaction),
		accounts:        accounts,
		locks:           newKeyedLock(),
		lockWaitTimeout: lockWaitTimeout,
	}
}

// Ensure MemLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*MemLedgerRepository)(nil)

// AppendEntries records all entries under one lock so they land together.
func (r *MemLedgerRepository) AppendEntries(_ context.Context, entries []domain.Transaction) error {
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if !r.accounts.exists(entry.AccountID) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, entry.AccountID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.append(entries)
	return nil
}

// AppendEntriesGuarded takes the keyed lock of every referenced account in
// sorted order, re-derives the guard account's balance under those locks,
// and appends only if the balance covers the guard amount.
func (r *MemLedgerRepository) AppendEntriesGuarded(ctx context.Context, entries []domain.Transaction, guard portsrepo.BalanceGuard) error {
	if len(entries) == 0 {
		return nil
	}

	accountIDs := map[string]struct{}{guard.AccountID: {}}
	for _, entry := range entries {
		accountIDs[entry.AccountID] = struct{}{}
	}
	keys := make([]string, 0, len(accountIDs))
	for id := range accountIDs {
		if !r.accounts.exists(id) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		keys = append(keys, id)
	}
	sort.Strings(keys)

	if err := r.locks.acquireAll(ctx, keys, r.lockWaitTimeout); err != nil {
		return err
	}
	defer r.locks.releaseAll(keys)

	balance, err := r.balanceOf(guard.AccountID)
	if err != nil {
		return err
	}
	if guard.Amount.GreaterThan(balance) {
		return fmt.Errorf("%w: account %s balance %s is below %s", apperrors.ErrInsufficientBalance, guard.AccountID, balance.String(), guard.Amount.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.append(entries)
	return nil
}

// ListEntriesByAccount returns a copy of the account's entries, oldest first.
func (r *MemLedgerRepository) ListEntriesByAccount(_ context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[accountID]
	out := make([]domain.Transaction, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}

// ListEntriesByAccountPaged returns a most-recent-first page using the same
// (occurredAt, transactionID) keyset cursor as the Postgres repository.
func (r *MemLedgerRepository) ListEntriesByAccountPaged(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	all, err := r.ListEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	// Reverse to most-recent-first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	start := 0
	if nextToken != nil && *nextToken != "" {
		occurredAt, transactionID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		for i, entry := range all {
			if entry.OccurredAt.Before(occurredAt) ||
				(entry.OccurredAt.Equal(occurredAt) && entry.TransactionID < transactionID) {
				start = i
				break
			}
			start = len(all)
		}
	}

	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	var token *string
	if len(page) == limit && end < len(all) {
		last := page[len(page)-1]
		encoded := pagination.EncodeToken(last.OccurredAt, last.TransactionID)
		token = &encoded
	}
	return page, token, nil
}

// append must be called with r.mu held for writing.
func (r *MemLedgerRepository) append(entries []domain.Transaction) {
	for _, entry := range entries {
		r.entries[entry.AccountID] = append(r.entries[entry.AccountID], entry)
	}
}

func (r *MemLedgerRepository) balanceOf(accountID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return accounting.ComputeBalance(r.entries[accountID])
}
