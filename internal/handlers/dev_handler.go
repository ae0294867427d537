package handlers

import (
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	demoDataService services.DemoDataServiceInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(demoDataService services.DemoDataServiceInterface) *DevHandler {
	return &DevHandler{
		demoDataService: demoDataService,
	}
}

// SeedDemoData populates the authenticated user's account with realistic
// transaction history, starter budgets and curated holiday events
// @Summary Seed demo data
// @Description Generate months of transaction history with seasonal spending
// @Description patterns so holiday insights have something to work with.
// @Description Development environments only.
// @Tags Development
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SeedDemoDataRequest false "Seed options"
// @Success 200 {object} SuccessResponse{data=dto.SeedDemoDataResponse} "Demo data created"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Router /dev/seed [post]
func (h *DevHandler) SeedDemoData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SeedDemoDataRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	months := req.Months
	if months <= 0 {
		months = services.DefaultDemoMonths
	}

	result, err := h.demoDataService.SeedDemoData(userID, months)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    result,
		Message: "Demo data generated successfully",
	})
}
