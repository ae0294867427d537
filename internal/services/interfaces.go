package services

import (
	"context"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken string) (*dto.TokenResponse, error)
	Logout(accessToken string) error
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	HashPasswordWithoutValidation(password string) (string, error)
	GenerateSecurePassword() (string, error)
	GenerateSecurePasswordWithLength(length int) (string, error)
	PasswordStrength(password string) int
	UpdatePassword(userID uuid.UUID, currentPassword, newPassword string) error
}

// UserServiceInterface defines profile and preference operations
type UserServiceInterface interface {
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdatePreferences(userID uuid.UUID, req *dto.UpdatePreferencesRequest) (*models.User, error)
}

// TransactionServiceInterface defines transaction business operations
type TransactionServiceInterface interface {
	CreateTransaction(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error)
	ListTransactions(userID uuid.UUID, query *dto.TransactionListQuery) ([]models.Transaction, int64, error)
	UpdateTransaction(userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uuid.UUID) error
	GetStats(userID uuid.UUID) (*dto.TransactionStats, error)
}

// BudgetServiceInterface defines budget business operations
type BudgetServiceInterface interface {
	CreateBudget(userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error)
	GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error)
	ListBudgets(userID uuid.UUID) ([]models.Budget, error)
	UpdateBudget(userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error)
	DeleteBudget(userID, budgetID uuid.UUID) error
}

// HolidayProviderInterface fetches holiday calendars from an external source.
// Implementations must degrade gracefully: a provider failure yields an empty
// result, never an error that blocks insight computation.
type HolidayProviderInterface interface {
	Enabled() bool
	FetchHolidays(ctx context.Context, countryCode string, year int) []models.HolidayEvent
}

// HolidayCalendarServiceInterface maintains the stored holiday calendar
type HolidayCalendarServiceInterface interface {
	EnsureEventsForRange(ctx context.Context, countryCode string, start, end time.Time) error
	UpcomingEvents(ctx context.Context, user *models.User, windowDays int) ([]models.HolidayEvent, error)
	SeedCuratedEvents(countryCode string) (int, error)
}

// InsightServiceInterface computes holiday spending insights
type InsightServiceInterface interface {
	ComputeHolidayInsights(ctx context.Context, userID uuid.UUID, windowDays int, force bool) ([]dto.HolidayInsightResponse, error)
}

// DemoDataServiceInterface seeds realistic development data
type DemoDataServiceInterface interface {
	SeedDemoData(userID uuid.UUID, months int) (*dto.SeedDemoDataResponse, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
