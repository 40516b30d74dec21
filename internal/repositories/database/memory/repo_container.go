package memory

import (
	"time"

	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the in-memory repositories. The ledger shares
// the account repository for referential checks.
func NewRepositoryProvider(lockWaitTimeout time.Duration) *portsrepo.RepositoryProvider {
	accounts := newMemAccountRepository()
	return &portsrepo.RepositoryProvider{
		Account: accounts,
		Ledger:  newMemLedgerRepository(accounts, lockWaitTimeout),
	}
}
