package dto

import (
	"time"

	"github.com/corebank/bank_ledger/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to open a new account.
type RegisterAccountRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required,max=20"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	AccountNumber string    `json:"accountNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		CreatedAt:     acc.CreatedAt,
	}
}
