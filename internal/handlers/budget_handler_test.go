package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"expense-tracker/internal/models"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestBudgetHandler(t *testing.T) {
	suite.Run(t, new(BudgetHandlerSuite))
}

type BudgetHandlerSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	budgetService *service_mocks.MockBudgetServiceInterface
	handler       *BudgetHandler
	e             *echo.Echo
	userID        uuid.UUID
}

func (s *BudgetHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.budgetService = service_mocks.NewMockBudgetServiceInterface(s.ctrl)
	s.handler = NewBudgetHandler(s.budgetService)
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *BudgetHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BudgetHandlerSuite) sampleBudget() *models.Budget {
	return &models.Budget{
		ID:       uuid.New(),
		UserID:   s.userID,
		Category: "Groceries",
		Amount:   decimal.RequireFromString("500.00"),
		Period:   models.BudgetPeriodMonthly,
	}
}

func (s *BudgetHandlerSuite) TestCreateBudget_Success() {
	body, _ := json.Marshal(map[string]string{
		"category": "Groceries",
		"amount":   "500.00",
		"period":   "monthly",
	})

	s.budgetService.EXPECT().CreateBudget(s.userID, gomock.Any()).
		Return(s.sampleBudget(), nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodPost, "/api/budgets", body)
	c.Set("user_id", s.userID)

	err := s.handler.CreateBudget(c)
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	s.Equal("500.00", data["amount"])
	s.Equal("monthly", data["period"])
}

func (s *BudgetHandlerSuite) TestCreateBudget_InvalidPeriodFailsValidation() {
	body, _ := json.Marshal(map[string]string{
		"category": "Groceries",
		"amount":   "500.00",
		"period":   "fortnightly",
	})

	c, _ := newTestContext(s.e, http.MethodPost, "/api/budgets", body)
	c.Set("user_id", s.userID)

	err := s.handler.CreateBudget(c)
	s.Error(err)
}

func (s *BudgetHandlerSuite) TestGetBudget_NotFound() {
	budgetID := uuid.New()

	s.budgetService.EXPECT().GetBudget(s.userID, budgetID).
		Return(nil, services.ErrBudgetNotFound).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/budgets/"+budgetID.String(), nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(budgetID.String())

	err := s.handler.GetBudget(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("BUDGET_001", string(errorResp.Error.Code))
}

func (s *BudgetHandlerSuite) TestListBudgets_Success() {
	budgets := []models.Budget{*s.sampleBudget()}

	s.budgetService.EXPECT().ListBudgets(s.userID).Return(budgets, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/budgets", nil)
	c.Set("user_id", s.userID)

	err := s.handler.ListBudgets(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *BudgetHandlerSuite) TestUpdateBudget_Success() {
	budget := s.sampleBudget()
	body, _ := json.Marshal(map[string]string{"amount": "650.00"})

	s.budgetService.EXPECT().UpdateBudget(s.userID, budget.ID, gomock.Any()).
		Return(budget, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/budgets/"+budget.ID.String(), body)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(budget.ID.String())

	err := s.handler.UpdateBudget(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *BudgetHandlerSuite) TestDeleteBudget_NotFound() {
	budgetID := uuid.New()

	s.budgetService.EXPECT().DeleteBudget(s.userID, budgetID).
		Return(services.ErrBudgetNotFound).Times(1)

	c, rec := newTestContext(s.e, http.MethodDelete, "/api/budgets/"+budgetID.String(), nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(budgetID.String())

	err := s.handler.DeleteBudget(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}
