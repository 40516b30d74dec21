package accounting

import (
	"fmt"

	"github.com/corebank/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to an entry amount based on its kind.
// This is used in both services and repositories to keep the balance rule
// consistent everywhere it is evaluated.
//
// CREDIT, TRANSFER_IN  -> Positive (+)
// DEBIT, TRANSFER_OUT  -> Negative (-)
func SignedAmount(txn domain.Transaction) (decimal.Decimal, error) {
	switch txn.Kind {
	case domain.Credit, domain.TransferIn:
		return txn.Amount, nil
	case domain.Debit, domain.TransferOut:
		return txn.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown entry kind '%s' encountered for account ID %s", txn.Kind, txn.AccountID)
	}
}

// ComputeBalance folds an account's entries into its current balance.
// An empty entry set yields zero. The result is independent of entry order.
func ComputeBalance(entries []domain.Transaction) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, txn := range entries {
		signed, err := SignedAmount(txn)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}

// ValidateEntries checks the creation-time invariants of a batch of entries:
// every amount strictly positive and every kind a known member of the closed
// variant.
func ValidateEntries(entries []domain.Transaction) error {
	zero := decimal.NewFromInt(0)
	for _, txn := range entries {
		if txn.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("entry amount must be positive for transaction ID %s", txn.TransactionID)
		}
		if !txn.Kind.Valid() {
			return fmt.Errorf("unknown entry kind '%s' for transaction ID %s", txn.Kind, txn.TransactionID)
		}
	}
	return nil
}
