package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the signed category of a ledger entry.
type EntryKind string

const (
	Credit      EntryKind = "CREDIT"
	Debit       EntryKind = "DEBIT"
	TransferOut EntryKind = "TRANSFER_OUT"
	TransferIn  EntryKind = "TRANSFER_IN"
)

// Valid reports whether k is one of the four known entry kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case Credit, Debit, TransferOut, TransferIn:
		return true
	}
	return false
}

// Transaction is a single immutable ledger entry against one account.
// Entries are append-only: they are never updated or deleted.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Kind          EntryKind       `json:"kind"`          // One of the four entry kinds (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Strictly positive; precise decimal type
	OccurredAt    time.Time       `json:"occurredAt"`    // When the entry was recorded
}
