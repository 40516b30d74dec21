package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/corebank/bank_ledger/internal/core/services"
	"github.com/corebank/bank_ledger/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure the mock satisfies the interface it stands in for.
var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestRegisterAccount_Success() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{AccountNumber: "ACC-1001"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("ACC-1001", account.AccountNumber)
	suite.WithinDuration(time.Now().UTC(), account.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_TrimsWhitespace() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{AccountNumber: "  ACC-1001  "}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("ACC-1001", account.AccountNumber)
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_EmptyNumber() {
	ctx := context.Background()

	account, err := suite.service.RegisterAccount(ctx, dto.RegisterAccountRequest{AccountNumber: "   "})

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_NumberTooLong() {
	ctx := context.Background()

	account, err := suite.service.RegisterAccount(ctx, dto.RegisterAccountRequest{
		AccountNumber: "ACC-123456789012345678901234567890",
	})

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_DuplicateNumber() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{AccountNumber: "ACC-1001"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_SaveError() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{AccountNumber: "ACC-1001"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	expected := &domain.Account{
		AccountID:     accountID,
		AccountNumber: "ACC-1001",
		CreatedAt:     time.Now().UTC(),
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(expected, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, accountID)

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByNumber", ctx, "ACC-404").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByNumber(ctx, "ACC-404")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
