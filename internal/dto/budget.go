package dto

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
)

// CreateBudgetRequest contains a new budget payload
type CreateBudgetRequest struct {
	Category string `json:"category" validate:"required,min=1,max=50"`
	Amount   string `json:"amount" validate:"required,positive_amount"`
	Period   string `json:"period" validate:"required,budget_period"`
}

// UpdateBudgetRequest contains a partial budget update.
// Nil fields are left unchanged.
type UpdateBudgetRequest struct {
	Category *string `json:"category" validate:"omitempty,min=1,max=50"`
	Amount   *string `json:"amount" validate:"omitempty,positive_amount"`
	Period   *string `json:"period" validate:"omitempty,budget_period"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBudgetResponse maps a budget model to its API representation
func NewBudgetResponse(b *models.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    b.Amount.StringFixed(2),
		Period:    b.Period,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
