package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind mirrors domain.EntryKind for database storage.
type EntryKind string

// Transaction is the database representation of a ledger entry.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Kind          EntryKind       `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	OccurredAt    time.Time       `db:"occurred_at"`
}
