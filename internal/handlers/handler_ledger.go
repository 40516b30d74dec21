package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corebank/bank_ledger/internal/apperrors"
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/corebank/bank_ledger/internal/core/services"
	"github.com/corebank/bank_ledger/internal/dto"
	"github.com/corebank/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles HTTP requests for money movement and derived reads.
type ledgerHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{accountService: as, ledgerService: ls}
}

// registerLedgerRoutes registers deposit/withdraw/transfer and read routes.
func registerLedgerRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts/:accountID")
	{
		accounts.POST("/deposit", h.deposit)
		accounts.POST("/withdraw", h.withdraw)
		accounts.POST("/transfer", h.transfer)
		accounts.GET("/balance", h.getBalance)
		accounts.GET("/transactions", h.listTransactions)
	}
}

func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	amount, ok := bindAmount(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), accountID, amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	logger.Info("Deposit accepted", slog.String("account_id", accountID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*entry))
}

func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	amount, ok := bindAmount(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.Withdraw(c.Request.Context(), accountID, amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	logger.Info("Withdrawal accepted", slog.String("account_id", accountID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*entry))
}

func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	err := h.ledgerService.Transfer(c.Request.Context(), accountID, req.DestinationAccountNumber, req.Amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	logger.Info("Transfer accepted", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *ledgerHandler) getBalance(c *gin.Context) {
	accountID := c.Param("accountID")

	if _, err := h.accountService.GetAccountByID(c.Request.Context(), accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		respondLedgerError(c, err)
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	limitStr := c.Query("limit")
	if limitStr == "" && c.Query("nextToken") == "" {
		// Unpaged: full history, most recent first.
		history, err := h.ledgerService.GetHistory(c.Request.Context(), accountID)
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(history)})
		return
	}

	limit := 0
	if limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	params := dto.ListTransactionsParams{Limit: limit}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), accountID, params)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	logger.Debug("Transactions listed", slog.Int("count", len(resp.Transactions)))
	c.JSON(http.StatusOK, resp)
}

// bindAmount binds the shared amount payload and enforces positivity; gin's
// binding tags cannot compare decimal values.
func bindAmount(c *gin.Context) (decimal.Decimal, bool) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON amount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return decimal.Zero, false
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return decimal.Zero, false
	}
	return req.Amount, true
}

// respondLedgerError maps service errors onto HTTP statuses.
func respondLedgerError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrUnknownAccount):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, services.ErrUnknownDestinationAccount):
		c.JSON(http.StatusNotFound, gin.H{"error": "The destination account number does not exist"})
	case errors.Is(err, services.ErrSelfTransferNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": "Unable to transfer to own account"})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The account balance is lesser than the requested amount"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Operation rejected after contention", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "The account is busy, please retry"})
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Error("Store unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		logger.Error("Unhandled ledger error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
