package handlers

import (
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/models"
	"expense-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction endpoints
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction records a new transaction
// @Summary Create a transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction payload"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction created"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001 or TRANSACTION_002"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(userID, &req)
	if err != nil {
		if err == services.ErrInvalidAmount {
			return SendError(c, errors.TransactionInvalidAmount)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewTransactionResponse(transaction),
		Message: "Transaction created successfully",
	})
}

// GetTransaction returns one transaction owned by the user
// @Summary Get a transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction"
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.NewTransactionResponse(transaction),
	})
}

// ListTransactions returns the user's transactions with filters and paging
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param category query string false "Filter by category"
// @Param type query string false "Filter by type (income or expense)"
// @Param startDate query string false "Filter from date (inclusive)"
// @Param endDate query string false "Filter to date (inclusive)"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} dto.ListTransactionsResponse "Transactions"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionListQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return err
	}

	transactions, total, err := h.transactionService.ListTransactions(userID, &query)
	if err != nil {
		return SendSystemError(c, err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = services.DefaultTransactionPageSize
	}

	response := dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Total:        total,
		Offset:       query.Offset,
		Limit:        limit,
	}
	for i := range transactions {
		response.Transactions = append(response.Transactions, *dto.NewTransactionResponse(&transactions[i]))
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction applies a partial update to a transaction
// @Summary Update a transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Updated transaction"
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, &req)
	if err != nil {
		switch err {
		case services.ErrTransactionNotFound:
			return SendError(c, errors.TransactionNotFound)
		case services.ErrInvalidAmount:
			return SendError(c, errors.TransactionInvalidAmount)
		case models.ErrInvalidTransactionType:
			return SendError(c, errors.TransactionInvalidType)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewTransactionResponse(transaction),
		Message: "Transaction updated successfully",
	})
}

// DeleteTransaction removes a transaction
// @Summary Delete a transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{message=string} "Transaction deleted"
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted successfully",
	})
}

// GetStats aggregates the user's full transaction history
// @Summary Get transaction statistics
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.TransactionStats} "Aggregated statistics"
// @Router /transactions/stats [get]
func (h *TransactionHandler) GetStats(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	stats, err := h.transactionService.GetStats(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: stats,
	})
}
