package dto

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
)

// CreateTransactionRequest contains a new transaction payload
type CreateTransactionRequest struct {
	Description string    `json:"description" validate:"required,min=1,max=255"`
	Amount      string    `json:"amount" validate:"required,positive_amount"`
	Category    string    `json:"category" validate:"required,min=1,max=50"`
	Type        string    `json:"type" validate:"required,transaction_type"`
	Date        time.Time `json:"date" validate:"required"`
}

// UpdateTransactionRequest contains a partial transaction update.
// Nil fields are left unchanged.
type UpdateTransactionRequest struct {
	Description *string    `json:"description" validate:"omitempty,min=1,max=255"`
	Amount      *string    `json:"amount" validate:"omitempty,positive_amount"`
	Category    *string    `json:"category" validate:"omitempty,min=1,max=50"`
	Type        *string    `json:"type" validate:"omitempty,transaction_type"`
	Date        *time.Time `json:"date"`
}

// TransactionListQuery contains filtering and pagination options for listing
type TransactionListQuery struct {
	Category  string     `query:"category"`
	Type      string     `query:"type" validate:"omitempty,transaction_type"`
	StartDate *time.Time `query:"startDate"`
	EndDate   *time.Time `query:"endDate"`
	Offset    int        `query:"offset" validate:"omitempty,min=0"`
	Limit     int        `query:"limit" validate:"omitempty,min=1,max=500"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTransactionResponse maps a transaction model to its API representation
func NewTransactionResponse(t *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
}

// MonthlySummary aggregates income and expenses for one calendar month
type MonthlySummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// TransactionStats aggregates a user's full transaction history
type TransactionStats struct {
	TotalIncome        float64                   `json:"totalIncome"`
	TotalExpenses      float64                   `json:"totalExpenses"`
	NetBalance         float64                   `json:"netBalance"`
	TransactionCount   int                       `json:"transactionCount"`
	AverageTransaction float64                   `json:"averageTransaction"`
	CategoryBreakdown  map[string]float64        `json:"categoryBreakdown"`
	MonthlySummary     map[string]MonthlySummary `json:"monthlySummary"`
}
