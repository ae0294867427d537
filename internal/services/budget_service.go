package services

import (
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrBudgetNotFound = errors.New("budget not found")

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo repositories.BudgetRepositoryInterface
	logger     *slog.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(budgetRepo repositories.BudgetRepositoryInterface, logger *slog.Logger) BudgetServiceInterface {
	return &BudgetService{
		budgetRepo: budgetRepo,
		logger:     logger,
	}
}

// CreateBudget creates a new budget for a user
func (s *BudgetService) CreateBudget(userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:   userID,
		Category: req.Category,
		Amount:   amount,
		Period:   req.Period,
	}

	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return budget, nil
}

// GetBudget retrieves a budget owned by the user. Budgets belonging to
// other users are reported as not found.
func (s *BudgetService) GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if budget.UserID != userID {
		return nil, ErrBudgetNotFound
	}

	return budget, nil
}

// ListBudgets returns all budgets for a user
func (s *BudgetService) ListBudgets(userID uuid.UUID) ([]models.Budget, error) {
	budgets, err := s.budgetRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	return budgets, nil
}

// UpdateBudget applies a partial update to a budget owned by the user
func (s *BudgetService) UpdateBudget(userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error) {
	budget, err := s.GetBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		budget.Category = *req.Category
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		budget.Amount = amount
	}
	if req.Period != nil {
		if !models.IsValidBudgetPeriod(*req.Period) {
			return nil, models.ErrInvalidBudgetPeriod
		}
		budget.Period = *req.Period
	}

	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return budget, nil
}

// DeleteBudget removes a budget owned by the user
func (s *BudgetService) DeleteBudget(userID, budgetID uuid.UUID) error {
	budget, err := s.GetBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(budget.ID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	return nil
}
