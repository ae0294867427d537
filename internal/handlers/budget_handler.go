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

// BudgetHandler handles budget endpoints
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudget creates a new budget
// @Summary Create a budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBudgetRequest true "Budget payload"
// @Success 201 {object} SuccessResponse{data=dto.BudgetResponse} "Budget created"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001 or BUDGET_002"
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.CreateBudget(userID, &req)
	if err != nil {
		if err == services.ErrInvalidAmount {
			return SendError(c, errors.BudgetInvalidAmount)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewBudgetResponse(budget),
		Message: "Budget created successfully",
	})
}

// GetBudget returns one budget owned by the user
// @Summary Get a budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse} "Budget"
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	budget, err := h.budgetService.GetBudget(userID, budgetID)
	if err != nil {
		if err == services.ErrBudgetNotFound {
			return SendError(c, errors.BudgetNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.NewBudgetResponse(budget),
	})
}

// ListBudgets returns all budgets for the user
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.BudgetResponse} "Budgets"
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		responses = append(responses, *dto.NewBudgetResponse(&budgets[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: responses,
	})
}

// UpdateBudget applies a partial update to a budget
// @Summary Update a budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse} "Updated budget"
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, &req)
	if err != nil {
		switch err {
		case services.ErrBudgetNotFound:
			return SendError(c, errors.BudgetNotFound)
		case services.ErrInvalidAmount:
			return SendError(c, errors.BudgetInvalidAmount)
		case models.ErrInvalidBudgetPeriod:
			return SendError(c, errors.BudgetInvalidPeriod)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewBudgetResponse(budget),
		Message: "Budget updated successfully",
	})
}

// DeleteBudget removes a budget
// @Summary Delete a budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{message=string} "Budget deleted"
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		if err == services.ErrBudgetNotFound {
			return SendError(c, errors.BudgetNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Budget deleted successfully",
	})
}
