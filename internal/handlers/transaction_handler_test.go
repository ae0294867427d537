package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerSuite))
}

type TransactionHandlerSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	transactionService *service_mocks.MockTransactionServiceInterface
	handler            *TransactionHandler
	e                  *echo.Echo
	userID             uuid.UUID
}

func (s *TransactionHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transactionService = service_mocks.NewMockTransactionServiceInterface(s.ctrl)
	s.handler = NewTransactionHandler(s.transactionService)
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *TransactionHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionHandlerSuite) sampleTransaction() *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      s.userID,
		Description: "Grocery run",
		Amount:      decimal.RequireFromString("54.20"),
		Category:    "Groceries",
		Type:        models.TransactionTypeExpense,
		Date:        time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC),
	}
}

func (s *TransactionHandlerSuite) TestCreateTransaction_Success() {
	body, _ := json.Marshal(map[string]interface{}{
		"description": "Grocery run",
		"amount":      "54.20",
		"category":    "Groceries",
		"type":        "expense",
		"date":        "2024-12-20T00:00:00Z",
	})

	s.transactionService.EXPECT().CreateTransaction(s.userID, gomock.Any()).
		Return(s.sampleTransaction(), nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodPost, "/api/transactions", body)
	c.Set("user_id", s.userID)

	err := s.handler.CreateTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	s.Equal("54.20", data["amount"])
	s.Equal("Groceries", data["category"])
}

func (s *TransactionHandlerSuite) TestCreateTransaction_Unauthenticated() {
	c, rec := newTestContext(s.e, http.MethodPost, "/api/transactions", []byte("{}"))

	err := s.handler.CreateTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *TransactionHandlerSuite) TestCreateTransaction_NegativeAmountFailsValidation() {
	body, _ := json.Marshal(map[string]interface{}{
		"description": "Refund abuse",
		"amount":      "-10.00",
		"category":    "Groceries",
		"type":        "expense",
		"date":        "2024-12-20T00:00:00Z",
	})

	c, _ := newTestContext(s.e, http.MethodPost, "/api/transactions", body)
	c.Set("user_id", s.userID)

	err := s.handler.CreateTransaction(c)
	s.Error(err)
}

func (s *TransactionHandlerSuite) TestGetTransaction_Success() {
	transaction := s.sampleTransaction()

	s.transactionService.EXPECT().GetTransaction(s.userID, transaction.ID).
		Return(transaction, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/transactions/"+transaction.ID.String(), nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(transaction.ID.String())

	err := s.handler.GetTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *TransactionHandlerSuite) TestGetTransaction_NotFound() {
	transactionID := uuid.New()

	s.transactionService.EXPECT().GetTransaction(s.userID, transactionID).
		Return(nil, services.ErrTransactionNotFound).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/transactions/"+transactionID.String(), nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())

	err := s.handler.GetTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("TRANSACTION_001", string(errorResp.Error.Code))
}

func (s *TransactionHandlerSuite) TestGetTransaction_MalformedID() {
	c, rec := newTestContext(s.e, http.MethodGet, "/api/transactions/not-a-uuid", nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := s.handler.GetTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *TransactionHandlerSuite) TestListTransactions_Success() {
	transactions := []models.Transaction{*s.sampleTransaction()}

	s.transactionService.EXPECT().ListTransactions(s.userID, gomock.Any()).
		Return(transactions, int64(1), nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/transactions?category=Groceries", nil)
	c.Set("user_id", s.userID)

	err := s.handler.ListTransactions(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListTransactionsResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(int64(1), response.Total)
	s.Len(response.Transactions, 1)
	s.Equal(services.DefaultTransactionPageSize, response.Limit)
}

func (s *TransactionHandlerSuite) TestUpdateTransaction_InvalidType() {
	transactionID := uuid.New()
	body, _ := json.Marshal(map[string]string{"description": "still fine"})

	s.transactionService.EXPECT().UpdateTransaction(s.userID, transactionID, gomock.Any()).
		Return(nil, models.ErrInvalidTransactionType).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/transactions/"+transactionID.String(), body)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())

	err := s.handler.UpdateTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("TRANSACTION_003", string(errorResp.Error.Code))
}

func (s *TransactionHandlerSuite) TestDeleteTransaction_Success() {
	transactionID := uuid.New()

	s.transactionService.EXPECT().DeleteTransaction(s.userID, transactionID).Return(nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodDelete, "/api/transactions/"+transactionID.String(), nil)
	c.Set("user_id", s.userID)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())

	err := s.handler.DeleteTransaction(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *TransactionHandlerSuite) TestGetStats_Success() {
	stats := &dto.TransactionStats{
		TotalIncome:      4000,
		TotalExpenses:    600,
		NetBalance:       3400,
		TransactionCount: 4,
	}

	s.transactionService.EXPECT().GetStats(s.userID).Return(stats, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/transactions/stats", nil)
	c.Set("user_id", s.userID)

	err := s.handler.GetStats(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	s.Equal(4000.0, data["totalIncome"])
	s.Equal(3400.0, data["netBalance"])
}
