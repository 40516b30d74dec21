package dto

import (
	"time"

	"github.com/corebank/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest carries the single positive amount for a deposit or withdrawal.
// Positivity is checked by the handler since binding cannot compare decimals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest defines the data needed to move money to another account.
type TransferRequest struct {
	DestinationAccountNumber string          `json:"destinationAccountNumber" binding:"required,max=20"`
	Amount                   decimal.Decimal `json:"amount" binding:"required"`
}

// BalanceResponse returns the derived balance for an account.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransactionResponse defines the data returned for a single ledger entry.
type TransactionResponse struct {
	TransactionID string           `json:"transactionID"`
	AccountID     string           `json:"accountID"`
	Kind          domain.EntryKind `json:"kind"`
	Amount        decimal.Decimal  `json:"amount"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

// ListTransactionsParams holds pagination parameters for listing an
// account's history. Zero Limit means "everything".
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is a most-recent-first page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Kind:          txn.Kind,
		Amount:        txn.Amount,
		OccurredAt:    txn.OccurredAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		out[i] = ToTransactionResponse(txn)
	}
	return out
}
