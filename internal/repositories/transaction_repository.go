package repositories

import (
	"errors"
	"fmt"
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	transaction := &models.Transaction{ID: id}
	if err := r.db.First(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// GetByUserID retrieves transactions for a user with optional filters and pagination
func (r *transactionRepository) GetByUserID(userID uuid.UUID, filters TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Offset(filters.Offset).Limit(filters.Limit)
	}

	if err := query.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// GetAllByUserID retrieves every transaction for a user ordered by date
func (r *transactionRepository) GetAllByUserID(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for user: %w", err)
	}
	return transactions, nil
}

// Update updates a transaction
func (r *transactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Save(transaction).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// UpdateFields updates specific fields of a transaction
func (r *transactionRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.Transaction{ID: id}).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction
func (r *transactionRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Transaction{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// SumExpensesInRange sums expense amounts for a user between start and end inclusive
func (r *transactionRepository) SumExpensesInRange(userID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Amount string
	}

	if err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as amount").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return parseDecimal(result.Amount)
}

// SumExpensesForCategoryInRange sums expense amounts for one category in a date range
func (r *transactionRepository) SumExpensesForCategoryInRange(userID uuid.UUID, category string, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Amount string
	}

	if err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as amount").
		Where("user_id = ? AND type = ? AND category = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, category, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses for category: %w", err)
	}

	return parseDecimal(result.Amount)
}

// SumExpensesByCategoryInRange sums expense amounts per category in a date range
func (r *transactionRepository) SumExpensesByCategoryInRange(userID uuid.UUID, start, end time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Category string
		Amount   string
	}

	if err := r.db.Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) as amount").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		amount, err := parseDecimal(row.Amount)
		if err != nil {
			return nil, err
		}
		sums[row.Category] = amount
	}

	return sums, nil
}

// CountExpensesInRange counts expense transactions for a user in a date range
func (r *transactionRepository) CountExpensesInRange(userID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64

	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	return count, nil
}

// parseDecimal converts an aggregate result to a decimal. SQLite returns
// SUM results without a fixed scale, so empty strings mean zero.
func parseDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse aggregate amount %q: %w", value, err)
	}
	return amount, nil
}
