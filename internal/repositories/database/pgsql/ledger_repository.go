package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	"github.com/corebank/bank_ledger/internal/models"
	"github.com/corebank/bank_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const insertEntryQuery = `
	INSERT INTO transactions (transaction_id, account_id, kind, amount, occurred_at)
	VALUES ($1, $2, $3, $4, $5);
`

type PgxLedgerRepository struct {
	BaseRepository
	lockWaitTimeout time.Duration
}

// newPgxLedgerRepository creates a new repository for the transaction log.
func newPgxLedgerRepository(pool *pgxpool.Pool, lockWaitTimeout time.Duration) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		lockWaitTimeout: lockWaitTimeout,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction for DB storage
func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Kind:          models.EntryKind(d.Kind),
		Amount:        d.Amount,
		OccurredAt:    d.OccurredAt,
	}
}

// Helper to convert models.Transaction from DB to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Kind:          domain.EntryKind(m.Kind),
		Amount:        m.Amount,
		OccurredAt:    m.OccurredAt,
	}
}

// AppendEntries inserts all entries within one database transaction so they
// are durably recorded all together or not at all.
func (r *PgxLedgerRepository) AppendEntries(ctx context.Context, entries []domain.Transaction) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	if err := r.insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AppendEntriesGuarded locks every referenced account row in sorted id order,
// re-derives the guard account's balance under those locks, and only then
// inserts the entries. The fixed lock order prevents deadlock between two
// transfers running in opposite directions; the lock wait is bounded by
// lock_timeout so contention surfaces as a reported conflict, never a hang.
func (r *PgxLedgerRepository) AppendEntriesGuarded(ctx context.Context, entries []domain.Transaction, guard portsrepo.BalanceGuard) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockWaitTimeout.Milliseconds())); err != nil {
		return mapStoreError(err, "failed to bound lock wait")
	}

	accountIDs := collectAccountIDs(entries, guard.AccountID)
	for _, accountID := range accountIDs {
		var locked string
		err := tx.QueryRow(ctx, `SELECT account_id FROM accounts WHERE account_id = $1 FOR UPDATE`, accountID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
			}
			return mapStoreError(err, fmt.Sprintf("failed to lock account %s", accountID))
		}
	}

	// Balance is re-derived inside the locked span; this is the
	// authoritative sufficiency check.
	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind IN ('CREDIT', 'TRANSFER_IN') THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1;
	`, guard.AccountID).Scan(&balance)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("failed to derive balance for account %s", guard.AccountID))
	}

	if guard.Amount.GreaterThan(balance) {
		return fmt.Errorf("%w: account %s balance %s is below %s", apperrors.ErrInsufficientBalance, guard.AccountID, balance.String(), guard.Amount.String())
	}

	if err := r.insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// insertEntries queues every row into one batch on the given transaction.
func (r *PgxLedgerRepository) insertEntries(ctx context.Context, tx pgx.Tx, entries []domain.Transaction) error {
	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelTxn := toModelTransaction(entry)
		batch.Queue(insertEntryQuery,
			modelTxn.TransactionID,
			modelTxn.AccountID,
			modelTxn.Kind,
			modelTxn.Amount,
			modelTxn.OccurredAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return mapStoreError(err, "failed to insert ledger entries")
		}
	}
	return nil
}

// ListEntriesByAccount returns every entry owned by the account, oldest first.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, kind, amount, occurred_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at ASC, transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("failed to query entries for account %s", accountID))
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListEntriesByAccountPaged returns a most-recent-first page of entries using
// an (occurred_at, transaction_id) keyset cursor.
func (r *PgxLedgerRepository) ListEntriesByAccountPaged(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT transaction_id, account_id, kind, amount, occurred_at
		FROM transactions
		WHERE account_id = $1
	`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		occurredAt, transactionID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (occurred_at, transaction_id) < ($2, $3)`
		args = append(args, occurredAt, transactionID)
	}

	query += fmt.Sprintf(` ORDER BY occurred_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapStoreError(err, fmt.Sprintf("failed to query entry page for account %s", accountID))
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(entries) == limit {
		last := entries[len(entries)-1]
		encoded := pagination.EncodeToken(last.OccurredAt, last.TransactionID)
		token = &encoded
	}
	return entries, token, nil
}

func scanEntries(rows pgx.Rows) ([]domain.Transaction, error) {
	entries := make([]domain.Transaction, 0)
	for rows.Next() {
		var modelTxn models.Transaction
		err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.AccountID,
			&modelTxn.Kind,
			&modelTxn.Amount,
			&modelTxn.OccurredAt,
		)
		if err != nil {
			return nil, mapStoreError(err, "failed to scan ledger entry row")
		}
		entries = append(entries, toDomainTransaction(modelTxn))
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "failed to read ledger entry rows")
	}
	return entries, nil
}

// collectAccountIDs returns the distinct account ids touched by the entries
// (plus the guard account), sorted so locks are always taken in the same
// global order.
func collectAccountIDs(entries []domain.Transaction, guardAccountID string) []string {
	seen := map[string]struct{}{guardAccountID: {}}
	ids := []string{guardAccountID}
	for _, entry := range entries {
		if _, ok := seen[entry.AccountID]; !ok {
			seen[entry.AccountID] = struct{}{}
			ids = append(ids, entry.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}
