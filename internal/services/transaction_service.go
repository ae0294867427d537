package services

import (
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultTransactionPageSize = 50

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateTransaction records a new transaction for a user
func (s *TransactionService) CreateTransaction(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Type:        req.Type,
		Date:        models.TruncateToDay(req.Date),
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter("transaction_recorded", map[string]string{
			"type": transaction.Type,
		})
	}

	return transaction, nil
}

// GetTransaction retrieves a transaction owned by the user. Transactions
// belonging to other users are reported as not found.
func (s *TransactionService) GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if transaction.UserID != userID {
		return nil, ErrTransactionNotFound
	}

	return transaction, nil
}

// ListTransactions returns the user's transactions with filters and paging
func (s *TransactionService) ListTransactions(userID uuid.UUID, query *dto.TransactionListQuery) ([]models.Transaction, int64, error) {
	filters := repositories.TransactionFilters{
		Category:  query.Category,
		Type:      query.Type,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Offset:    query.Offset,
		Limit:     query.Limit,
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultTransactionPageSize
	}

	transactions, total, err := s.transactionRepo.GetByUserID(userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// UpdateTransaction applies a partial update to a transaction owned by the user
func (s *TransactionService) UpdateTransaction(userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	transaction, err := s.GetTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		updates["amount"] = amount
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Type != nil {
		if !models.IsValidTransactionType(*req.Type) {
			return nil, models.ErrInvalidTransactionType
		}
		updates["type"] = *req.Type
	}
	if req.Date != nil {
		updates["date"] = models.TruncateToDay(*req.Date)
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	if err := s.transactionRepo.UpdateFields(transaction.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return s.GetTransaction(userID, transactionID)
}

// DeleteTransaction removes a transaction owned by the user
func (s *TransactionService) DeleteTransaction(userID, transactionID uuid.UUID) error {
	if _, err := s.GetTransaction(userID, transactionID); err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}

// GetStats aggregates the user's full transaction history
func (s *TransactionService) GetStats(userID uuid.UUID) (*dto.TransactionStats, error) {
	transactions, err := s.transactionRepo.GetAllByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	categoryBreakdown := make(map[string]decimal.Decimal)
	monthly := make(map[string]*struct{ income, expenses decimal.Decimal })

	for i := range transactions {
		t := &transactions[i]
		monthKey := t.Date.Format("2006-01")
		if monthly[monthKey] == nil {
			monthly[monthKey] = &struct{ income, expenses decimal.Decimal }{}
		}

		if t.IsIncome() {
			totalIncome = totalIncome.Add(t.Amount)
			monthly[monthKey].income = monthly[monthKey].income.Add(t.Amount)
		} else {
			totalExpenses = totalExpenses.Add(t.Amount)
			categoryBreakdown[t.Category] = categoryBreakdown[t.Category].Add(t.Amount)
			monthly[monthKey].expenses = monthly[monthKey].expenses.Add(t.Amount)
		}
	}

	net := totalIncome.Sub(totalExpenses)
	count := len(transactions)

	average := decimal.Zero
	if count > 0 {
		average = net.Div(decimal.NewFromInt(int64(count)))
	}

	stats := &dto.TransactionStats{
		TotalIncome:        totalIncome.Round(2).InexactFloat64(),
		TotalExpenses:      totalExpenses.Round(2).InexactFloat64(),
		NetBalance:         net.Round(2).InexactFloat64(),
		TransactionCount:   count,
		AverageTransaction: average.Round(2).InexactFloat64(),
		CategoryBreakdown:  make(map[string]float64, len(categoryBreakdown)),
		MonthlySummary:     make(map[string]dto.MonthlySummary, len(monthly)),
	}

	for category, total := range categoryBreakdown {
		stats.CategoryBreakdown[category] = total.Round(2).InexactFloat64()
	}
	for month, summary := range monthly {
		stats.MonthlySummary[month] = dto.MonthlySummary{
			Income:   summary.income.Round(2).InexactFloat64(),
			Expenses: summary.expenses.Round(2).InexactFloat64(),
		}
	}

	return stats, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
