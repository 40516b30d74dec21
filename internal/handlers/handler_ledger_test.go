package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebank/bank_ledger/internal/apperrors"
	"github.com/corebank/bank_ledger/internal/core/domain"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/corebank/bank_ledger/internal/core/services"
	"github.com/corebank/bank_ledger/internal/dto"
	"github.com/corebank/bank_ledger/internal/handlers"
)

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// MockLedgerService is a mock type for the LedgerSvcFacade interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, sourceAccountID string, destinationAccountNumber string, amount decimal.Decimal) error {
	args := m.Called(ctx, sourceAccountID, destinationAccountNumber, amount)
	return args.Error(0)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) GetHistory(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite Setup ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccountSvc *MockAccountService
	mockLedgerSvc  *MockLedgerService

	accountID string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockLedgerSvc = new(MockLedgerService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Account: suite.mockAccountSvc,
		Ledger:  suite.mockLedgerSvc,
	})

	suite.accountID = uuid.NewString()
}

func (suite *LedgerHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Accounts ---

func (suite *LedgerHandlerTestSuite) TestRegisterAccount_Created() {
	account := &domain.Account{
		AccountID:     suite.accountID,
		AccountNumber: "ACC-1001",
		CreatedAt:     time.Now().UTC(),
	}
	suite.mockAccountSvc.On("RegisterAccount", mock.Anything, dto.RegisterAccountRequest{AccountNumber: "ACC-1001"}).
		Return(account, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{"accountNumber": "ACC-1001"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountID, resp.AccountID)
	suite.Equal("ACC-1001", resp.AccountNumber)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRegisterAccount_Duplicate() {
	suite.mockAccountSvc.On("RegisterAccount", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{"accountNumber": "ACC-1001"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestRegisterAccount_MissingNumber() {
	w := suite.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "RegisterAccount")
}

func (suite *LedgerHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, suite.accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Deposit / Withdraw ---

func (suite *LedgerHandlerTestSuite) TestDeposit_Created() {
	amount := decimal.RequireFromString("100.50")
	entry := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     suite.accountID,
		Kind:          domain.Credit,
		Amount:        amount,
		OccurredAt:    time.Now().UTC(),
	}
	suite.mockLedgerSvc.On("Deposit", mock.Anything, suite.accountID, amount).Return(entry, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/deposit", gin.H{"amount": "100.50"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Credit, resp.Kind)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_NonPositiveAmount() {
	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/deposit", gin.H{"amount": "-5"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Deposit")
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	amount := decimal.RequireFromString("1000")
	suite.mockLedgerSvc.On("Withdraw", mock.Anything, suite.accountID, amount).
		Return(nil, services.ErrInsufficientFunds).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/withdraw", gin.H{"amount": "1000"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_UnknownAccount() {
	amount := decimal.RequireFromString("10")
	suite.mockLedgerSvc.On("Withdraw", mock.Anything, suite.accountID, amount).
		Return(nil, services.ErrUnknownAccount).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/withdraw", gin.H{"amount": "10"})

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Transfer ---

func (suite *LedgerHandlerTestSuite) TestTransfer_Completed() {
	amount := decimal.RequireFromString("25")
	suite.mockLedgerSvc.On("Transfer", mock.Anything, suite.accountID, "ACC-DST", amount).Return(nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/transfer",
		gin.H{"destinationAccountNumber": "ACC-DST", "amount": "25"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTransfer_SelfTransfer() {
	suite.mockLedgerSvc.On("Transfer", mock.Anything, suite.accountID, "ACC-SELF", mock.Anything).
		Return(services.ErrSelfTransferNotAllowed).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/transfer",
		gin.H{"destinationAccountNumber": "ACC-SELF", "amount": "5"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_UnknownDestination() {
	suite.mockLedgerSvc.On("Transfer", mock.Anything, suite.accountID, "ACC-NOPE", mock.Anything).
		Return(services.ErrUnknownDestinationAccount).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/transfer",
		gin.H{"destinationAccountNumber": "ACC-NOPE", "amount": "5"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_StoreConflict() {
	suite.mockLedgerSvc.On("Transfer", mock.Anything, suite.accountID, "ACC-DST", mock.Anything).
		Return(apperrors.ErrConflict).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/transfer",
		gin.H{"destinationAccountNumber": "ACC-DST", "amount": "5"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_StoreUnavailable() {
	suite.mockLedgerSvc.On("Transfer", mock.Anything, suite.accountID, "ACC-DST", mock.Anything).
		Return(apperrors.ErrUnavailable).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/transfer",
		gin.H{"destinationAccountNumber": "ACC-DST", "amount": "5"})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

// --- Balance / Transactions ---

func (suite *LedgerHandlerTestSuite) TestGetBalance_OK() {
	account := &domain.Account{AccountID: suite.accountID, AccountNumber: "ACC-1001", CreatedAt: time.Now().UTC()}
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, suite.accountID).Return(account, nil).Once()
	suite.mockLedgerSvc.On("GetBalance", mock.Anything, suite.accountID).
		Return(decimal.RequireFromString("70"), nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID+"/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(suite.accountID, resp.AccountID)
	suite.True(decimal.RequireFromString("70").Equal(resp.Balance))
}

func (suite *LedgerHandlerTestSuite) TestGetBalance_UnknownAccount() {
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, suite.accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID+"/balance", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "GetBalance")
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_FullHistory() {
	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: suite.accountID, Kind: domain.Credit, Amount: decimal.RequireFromString("10"), OccurredAt: time.Now().UTC()},
	}
	suite.mockLedgerSvc.On("GetHistory", mock.Anything, suite.accountID).Return(history, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID+"/transactions", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Paged() {
	token := "next-page"
	suite.mockLedgerSvc.On("ListTransactions", mock.Anything, suite.accountID, dto.ListTransactionsParams{Limit: 2}).
		Return(&dto.ListTransactionsResponse{
			Transactions: []dto.TransactionResponse{},
			NextToken:    &token,
		}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID+"/transactions?limit=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_BadLimit() {
	w := suite.performRequest(http.MethodGet, "/api/v1/accounts/"+suite.accountID+"/transactions?limit=zero", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

// --- Run Suite ---

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
