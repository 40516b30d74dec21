package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/corebank/bank_ledger/internal/dto"
	"github.com/corebank/bank_ledger/internal/middleware"
	"github.com/corebank/bank_ledger/internal/utils/accounting"
)

var (
	ErrUnknownAccount            = errors.New("account not found")
	ErrUnknownDestinationAccount = errors.New("destination account not found")
	ErrInsufficientFunds         = errors.New("the account balance is lesser than the requested amount")
	ErrSelfTransferNotAllowed    = errors.New("unable to transfer to own account")
)

// Mutating operations retry this many times on lock/transaction contention
// before surfacing the conflict to the caller.
const maxConflictRetries = 3

const conflictRetryDelay = 25 * time.Millisecond

const defaultHistoryPageSize = 20

// ledgerService orchestrates deposits, withdrawals and transfers against the
// append-only transaction log, and derives balances from it.
type ledgerService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Deposit appends one Credit entry. No balance check is needed; it always
// succeeds for an existing account.
func (s *ledgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.resolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entry := newEntry(account.AccountID, domain.Credit, amount, time.Now().UTC())
	if err := accounting.ValidateEntries([]domain.Transaction{entry}); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	err = s.withConflictRetry(ctx, func() error {
		return s.ledgerRepo.AppendEntries(ctx, []domain.Transaction{entry})
	})
	if err != nil {
		logger.Error("Failed to append deposit entry", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Deposit recorded", slog.String("account_id", account.AccountID), slog.String("amount", amount.String()))
	return &entry, nil
}

// Withdraw appends one Debit entry unless it would overdraw the account.
// The balance check and the append happen as one serialized step inside the
// repository's guarded append, so two concurrent withdrawals cannot both
// pass the check.
func (s *ledgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.resolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entry := newEntry(account.AccountID, domain.Debit, amount, time.Now().UTC())
	if err := accounting.ValidateEntries([]domain.Transaction{entry}); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	guard := portsrepo.BalanceGuard{AccountID: account.AccountID, Amount: amount}
	err = s.withConflictRetry(ctx, func() error {
		return s.ledgerRepo.AppendEntriesGuarded(ctx, []domain.Transaction{entry}, guard)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Withdrawal rejected for insufficient funds", slog.String("account_id", account.AccountID), slog.String("amount", amount.String()))
			return nil, ErrInsufficientFunds
		}
		logger.Error("Failed to append withdrawal entry", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Withdrawal recorded", slog.String("account_id", account.AccountID), slog.String("amount", amount.String()))
	return &entry, nil
}

// Transfer moves amount from the source account to the account identified by
// destinationAccountNumber as one atomic two-entry append.
//
// The checks are evaluated in a fixed, caller-observable order and the first
// failing one is reported: self-transfer, then balance sufficiency, then
// destination existence. The self check compares account numbers so it needs
// no destination lookup; the funds check here is advisory for ordering, the
// authoritative one runs again inside the guarded append's serialized span.
func (s *ledgerService) Transfer(ctx context.Context, sourceAccountID string, destinationAccountNumber string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.resolveAccount(ctx, sourceAccountID)
	if err != nil {
		return err
	}

	if destinationAccountNumber == source.AccountNumber {
		logger.Warn("Self-transfer rejected", slog.String("account_id", source.AccountID))
		return ErrSelfTransferNotAllowed
	}

	balance, err := s.GetBalance(ctx, source.AccountID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance) {
		logger.Warn("Transfer rejected for insufficient funds", slog.String("account_id", source.AccountID), slog.String("amount", amount.String()))
		return ErrInsufficientFunds
	}

	destination, err := s.accountRepo.FindAccountByNumber(ctx, destinationAccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transfer destination not found")
			return ErrUnknownDestinationAccount
		}
		logger.Error("Failed to resolve transfer destination", slog.String("error", err.Error()))
		return fmt.Errorf("failed to resolve destination account: %w", err)
	}

	// Both entries share one timestamp; they belong to the same logical
	// operation even though they are independent rows.
	now := time.Now().UTC()
	entries := []domain.Transaction{
		newEntry(source.AccountID, domain.TransferOut, amount, now),
		newEntry(destination.AccountID, domain.TransferIn, amount, now),
	}
	if err := accounting.ValidateEntries(entries); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	guard := portsrepo.BalanceGuard{AccountID: source.AccountID, Amount: amount}
	err = s.withConflictRetry(ctx, func() error {
		return s.ledgerRepo.AppendEntriesGuarded(ctx, entries, guard)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Transfer rejected for insufficient funds at commit", slog.String("account_id", source.AccountID))
			return ErrInsufficientFunds
		}
		logger.Error("Failed to append transfer entries", slog.String("error", err.Error()), slog.String("account_id", source.AccountID))
		return err
	}

	logger.Info("Transfer recorded",
		slog.String("source_account_id", source.AccountID),
		slog.String("destination_account_id", destination.AccountID),
		slog.String("amount", amount.String()),
	)
	return nil
}

// GetBalance derives the account's balance by folding its entries.
// An account with no entries has balance zero.
func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := accounting.ComputeBalance(entries)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// GetHistory returns the account's entries most-recent-first.
func (s *ledgerService) GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.resolveAccount(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	// ListEntriesByAccount is occurredAt ascending; reverse in place.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// ListTransactions returns a most-recent-first page of the account's history.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveAccount(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccountPaged(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries by account from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(entries),
		NextToken:    nextToken,
	}, nil
}

// resolveAccount maps a missing source account to ErrUnknownAccount.
func (s *ledgerService) resolveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUnknownAccount
		}
		middleware.GetLoggerFromCtx(ctx).Error("Failed to resolve account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to resolve account %s: %w", accountID, err)
	}
	return account, nil
}

// withConflictRetry runs fn, retrying a bounded number of times when the
// repository reports contention. Other errors pass through unchanged.
func (s *ledgerService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * conflictRetryDelay):
			}
		}
		err = fn()
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
	}
	return err
}

func newEntry(accountID string, kind domain.EntryKind, amount decimal.Decimal, occurredAt time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          kind,
		Amount:        amount,
		OccurredAt:    occurredAt,
	}
}
