package models

import "time"

// Account is the database representation of a customer account.
type Account struct {
	AccountID     string    `db:"account_id"`
	AccountNumber string    `db:"account_number"`
	CreatedAt     time.Time `db:"created_at"`
}
