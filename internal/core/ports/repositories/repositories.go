package repositories

// RepositoryProvider bundles the repository implementations for one storage
// backend so wiring code can swap backends as a unit.
type RepositoryProvider struct {
	Account AccountRepository
	Ledger  LedgerRepository
}
