package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/corebank/bank_ledger/internal/dto"
	"github.com/corebank/bank_ledger/internal/middleware"
)

const maxAccountNumberLength = 20

// accountService provides account registration and lookup.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount opens a new account. The account number is immutable after
// creation; uniqueness is enforced by the repository inside its own write
// serialization, so two racing registrations of the same number yield
// exactly one account.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	number := strings.TrimSpace(req.AccountNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: account number is required", apperrors.ErrValidation)
	}
	if len(number) > maxAccountNumberLength {
		return nil, fmt.Errorf("%w: account number must be at most %d characters", apperrors.ErrValidation, maxAccountNumberLength)
	}

	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate account number on registration", slog.String("account_number", number))
			return nil, err
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account registered successfully", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccountByID retrieves an account by its opaque identifier.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByNumber retrieves an account by its human-facing number.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account by number", slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}
