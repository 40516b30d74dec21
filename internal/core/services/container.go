package services

import (
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
)

// NewServiceContainer wires every service facade against one repository
// provider. The repositories' lifetime is owned by the caller.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.Account),
		Ledger:  NewLedgerService(repos.Account, repos.Ledger),
	}
}
