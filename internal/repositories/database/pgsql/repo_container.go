package pgsql

import (
	"time"

	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres-backed repositories over one
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool, lockWaitTimeout time.Duration) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Account: newPgxAccountRepository(pool),
		Ledger:  newPgxLedgerRepository(pool, lockWaitTimeout),
	}
}
