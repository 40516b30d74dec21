package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	"github.com/corebank/bank_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		AccountNumber: d.AccountNumber,
		CreatedAt:     d.CreatedAt,
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		CreatedAt:     m.CreatedAt,
	}
}

// SaveAccount inserts a new account. The unique constraint on account_number
// is the authoritative duplicate check; a preceding read would race.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, account_number, created_at)
		VALUES ($1, $2, $3);
	`
	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountNumber,
		modelAcc.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, modelAcc.AccountNumber)
		}
		return mapStoreError(err, fmt.Sprintf("failed to save account %s", modelAcc.AccountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, account_number, created_at
		FROM accounts
		WHERE account_id = $1;
	`
	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.AccountNumber,
		&modelAcc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, fmt.Sprintf("failed to find account by ID %s", accountID))
	}

	domainAcc := toDomainAccount(modelAcc)
	return &domainAcc, nil
}

// FindAccountByNumber retrieves an account by its unique account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT account_id, account_number, created_at
		FROM accounts
		WHERE account_number = $1;
	`
	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, accountNumber).Scan(
		&modelAcc.AccountID,
		&modelAcc.AccountNumber,
		&modelAcc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to find account by number")
	}

	domainAcc := toDomainAccount(modelAcc)
	return &domainAcc, nil
}
