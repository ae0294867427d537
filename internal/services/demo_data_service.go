package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultDemoMonths = 12

	// Spending near a seeded holiday is inflated so the insight engine has
	// a real signal to pick up.
	holidaySpendMultiplier = 1.8
)

// demoCategory drives the generated expense mix for one spending category
type demoCategory struct {
	Name      string
	MinAmount float64
	MaxAmount float64
	PerMonth  int
	Merchants []string
}

var demoCategories = []demoCategory{
	{Name: "Groceries", MinAmount: 20, MaxAmount: 180, PerMonth: 8, Merchants: []string{"Walmart Supercenter", "Kroger", "Trader Joe's", "Aldi"}},
	{Name: "Dining", MinAmount: 8, MaxAmount: 90, PerMonth: 6, Merchants: []string{"Starbucks", "Chipotle", "Olive Garden", "Panda Express"}},
	{Name: "Transport", MinAmount: 10, MaxAmount: 70, PerMonth: 5, Merchants: []string{"Uber", "Shell", "Metro Transit"}},
	{Name: "Entertainment", MinAmount: 10, MaxAmount: 60, PerMonth: 3, Merchants: []string{"Netflix", "AMC Theaters", "Spotify"}},
	{Name: "Utilities", MinAmount: 50, MaxAmount: 220, PerMonth: 3, Merchants: []string{"PG&E", "Comcast Xfinity", "Water Department"}},
	{Name: "Gifts", MinAmount: 15, MaxAmount: 150, PerMonth: 1, Merchants: []string{"Amazon.com", "Target", "Etsy"}},
}

var demoBudgets = []struct {
	Category string
	Amount   float64
	Period   string
}{
	{Category: "Groceries", Amount: 700, Period: models.BudgetPeriodMonthly},
	{Category: "Dining", Amount: 300, Period: models.BudgetPeriodMonthly},
	{Category: "Gifts", Amount: 200, Period: models.BudgetPeriodMonthly},
}

// DemoDataService seeds realistic transaction history, budgets, and the
// curated holiday calendar for development and demos.
type DemoDataService struct {
	userRepo        repositories.UserRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	calendarService HolidayCalendarServiceInterface
	logger          *slog.Logger
	now             func() time.Time
}

// NewDemoDataService creates a new demo data service
func NewDemoDataService(
	userRepo repositories.UserRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	calendarService HolidayCalendarServiceInterface,
	logger *slog.Logger,
) DemoDataServiceInterface {
	return &DemoDataService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		calendarService: calendarService,
		logger:          logger,
		now:             time.Now,
	}
}

// SeedDemoData generates months of history for a user: salary income,
// category spending with holiday-season bumps, default budgets, and the
// curated holiday calendar for the user's country.
func (s *DemoDataService) SeedDemoData(userID uuid.UUID, months int) (*dto.SeedDemoDataResponse, error) {
	if months <= 0 {
		months = DefaultDemoMonths
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	countryCode := user.CountryCode
	if countryCode == "" {
		countryCode = models.DefaultCountryCode
	}

	holidaysSeeded, err := s.calendarService.SeedCuratedEvents(countryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to seed holiday calendar: %w", err)
	}

	faker := gofakeit.New(uint64(userID.ID()))
	today := models.TruncateToDay(s.now())
	start := today.AddDate(0, -months, 0)

	transactionsCreated, err := s.seedTransactions(faker, userID, start, today)
	if err != nil {
		return nil, err
	}

	budgetsCreated, err := s.seedBudgets(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("demo data seeded",
		"user_id", userID,
		"months", months,
		"transactions", transactionsCreated,
		"budgets", budgetsCreated,
		"holidays", holidaysSeeded)

	return &dto.SeedDemoDataResponse{
		TransactionsCreated: transactionsCreated,
		BudgetsCreated:      budgetsCreated,
		HolidaysSeeded:      holidaysSeeded,
	}, nil
}

func (s *DemoDataService) seedTransactions(faker *gofakeit.Faker, userID uuid.UUID, start, end time.Time) (int, error) {
	created := 0

	for monthStart := start; monthStart.Before(end); monthStart = monthStart.AddDate(0, 1, 0) {
		salary := &models.Transaction{
			UserID:      userID,
			Description: "Direct Deposit - Salary",
			Amount:      decimal.NewFromFloat(faker.Price(3200, 5800)).Round(2),
			Category:    "Income",
			Type:        models.TransactionTypeIncome,
			Date:        time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC),
		}
		if err := s.transactionRepo.Create(salary); err != nil {
			return created, fmt.Errorf("failed to create demo income: %w", err)
		}
		created++

		for _, category := range demoCategories {
			for i := 0; i < category.PerMonth; i++ {
				day := faker.IntRange(1, 28)
				date := time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC)
				if date.After(end) {
					continue
				}

				amount := faker.Price(category.MinAmount, category.MaxAmount)
				if isHolidaySeason(date) && (category.Name == "Gifts" || category.Name == "Dining" || category.Name == "Groceries") {
					amount *= holidaySpendMultiplier
				}

				merchant := category.Merchants[faker.IntRange(0, len(category.Merchants)-1)]
				transaction := &models.Transaction{
					UserID:      userID,
					Description: "Purchase at " + merchant,
					Amount:      decimal.NewFromFloat(amount).Round(2),
					Category:    category.Name,
					Type:        models.TransactionTypeExpense,
					Date:        date,
				}
				if err := s.transactionRepo.Create(transaction); err != nil {
					return created, fmt.Errorf("failed to create demo transaction: %w", err)
				}
				created++
			}
		}
	}

	return created, nil
}

func (s *DemoDataService) seedBudgets(userID uuid.UUID) (int, error) {
	created := 0

	for _, b := range demoBudgets {
		if _, err := s.budgetRepo.GetByUserIDAndCategory(userID, b.Category); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrBudgetNotFound) {
			return created, fmt.Errorf("failed to check existing budget: %w", err)
		}

		budget := &models.Budget{
			UserID:   userID,
			Category: b.Category,
			Amount:   decimal.NewFromFloat(b.Amount),
			Period:   b.Period,
		}
		if err := s.budgetRepo.Create(budget); err != nil {
			return created, fmt.Errorf("failed to create demo budget: %w", err)
		}
		created++
	}

	return created, nil
}

// isHolidaySeason flags the December run-up where gift and food spending
// spikes in the generated history.
func isHolidaySeason(date time.Time) bool {
	return date.Month() == time.December && date.Day() >= 10
}
