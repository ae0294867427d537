package repositories

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilters defines optional filters for transaction listing
type TransactionFilters struct {
	Category  string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(userID uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(userID uuid.UUID, passwordHash string) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
	UnlockAccount(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetByUserID(userID uuid.UUID, filters TransactionFilters) ([]models.Transaction, int64, error)
	GetAllByUserID(userID uuid.UUID) ([]models.Transaction, error)
	Update(transaction *models.Transaction) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error

	// Aggregations over expense transactions within an inclusive date range
	SumExpensesInRange(userID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	SumExpensesForCategoryInRange(userID uuid.UUID, category string, start, end time.Time) (decimal.Decimal, error)
	SumExpensesByCategoryInRange(userID uuid.UUID, start, end time.Time) (map[string]decimal.Decimal, error)
	CountExpensesInRange(userID uuid.UUID, start, end time.Time) (int64, error)
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	GetByID(id uuid.UUID) (*models.Budget, error)
	GetByUserID(userID uuid.UUID) ([]models.Budget, error)
	GetByUserIDAndCategory(userID uuid.UUID, category string) (*models.Budget, error)
	Update(budget *models.Budget) error
	Delete(id uuid.UUID) error
}

// HolidayEventRepositoryInterface defines the contract for holiday event repository operations
type HolidayEventRepositoryInterface interface {
	Create(event *models.HolidayEvent) error
	CreateBatch(events []models.HolidayEvent) error
	GetByID(id uuid.UUID) (*models.HolidayEvent, error)
	GetInRange(countryCode string, start, end time.Time) ([]models.HolidayEvent, error)
	GetPriorOccurrences(name, countryCode string, before, since time.Time) ([]models.HolidayEvent, error)
	GetExistingKeys(countryCode string) (map[models.HolidayEventKey]bool, error)
	CountBySourceInYear(countryCode, source string, year int) (int64, error)
}

// HolidayInsightRepositoryInterface defines the contract for the insight cache.
// The cache is append-only: Append always inserts and GetLatestUnexpired picks
// the newest row whose expiry is still in the future.
type HolidayInsightRepositoryInterface interface {
	Append(insight *models.HolidayInsight) error
	GetLatestUnexpired(userID, holidayEventID uuid.UUID, windowStart, now time.Time) (*models.HolidayInsight, error)
}

type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByID(id uuid.UUID) (*models.RefreshToken, error)
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	GetActiveByUserID(userID uuid.UUID) ([]*models.RefreshToken, error)
	Update(token *models.RefreshToken) error
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
