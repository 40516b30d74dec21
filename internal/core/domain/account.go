package domain

import "time"

// Account identifies a customer account. The balance is never stored here;
// it is always derived from the account's ledger entries.
type Account struct {
	AccountID     string    `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string    `json:"accountNumber"` // Unique, at most 20 chars, immutable after creation
	CreatedAt     time.Time `json:"createdAt"`
}
