package repositories

import (
	"testing"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestBudgetRepository(t *testing.T) {
	suite.Run(t, new(BudgetRepositorySuite))
}

type BudgetRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BudgetRepositoryInterface
	user *models.User
}

func (s *BudgetRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBudgetRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "budgets@example.com")
}

func (s *BudgetRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BudgetRepositorySuite) createBudget(category, amount, period string) *models.Budget {
	s.T().Helper()

	budget := &models.Budget{
		UserID:   s.user.ID,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Period:   period,
	}
	s.Require().NoError(s.repo.Create(budget))
	return budget
}

func (s *BudgetRepositorySuite) TestBudgetRepository_CreateAndGet() {
	created := s.createBudget("Groceries", "500.00", models.BudgetPeriodMonthly)

	found, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.Equal("Groceries", found.Category)
	s.True(found.Amount.Equal(decimal.RequireFromString("500.00")))

	_, err = s.repo.GetByID(uuid.New())
	s.Equal(ErrBudgetNotFound, err)
}

func (s *BudgetRepositorySuite) TestBudgetRepository_GetByUserIDOrdersByCategory() {
	s.createBudget("Groceries", "500.00", models.BudgetPeriodMonthly)
	s.createBudget("Dining", "300.00", models.BudgetPeriodMonthly)

	budgets, err := s.repo.GetByUserID(s.user.ID)

	s.NoError(err)
	s.Require().Len(budgets, 2)
	s.Equal("Dining", budgets[0].Category)
	s.Equal("Groceries", budgets[1].Category)
}

func (s *BudgetRepositorySuite) TestBudgetRepository_GetByUserIDAndCategory() {
	created := s.createBudget("Gifts", "200.00", models.BudgetPeriodMonthly)

	found, err := s.repo.GetByUserIDAndCategory(s.user.ID, "Gifts")
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.repo.GetByUserIDAndCategory(s.user.ID, "Travel")
	s.Equal(ErrBudgetNotFound, err)
}

func (s *BudgetRepositorySuite) TestBudgetRepository_Update() {
	created := s.createBudget("Gifts", "200.00", models.BudgetPeriodMonthly)

	created.Amount = decimal.RequireFromString("350.00")
	created.Period = models.BudgetPeriodWeekly
	s.NoError(s.repo.Update(created))

	updated, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.True(updated.Amount.Equal(decimal.RequireFromString("350.00")))
	s.Equal(models.BudgetPeriodWeekly, updated.Period)
}

func (s *BudgetRepositorySuite) TestBudgetRepository_Delete() {
	created := s.createBudget("Gifts", "200.00", models.BudgetPeriodMonthly)

	s.NoError(s.repo.Delete(created.ID))

	_, err := s.repo.GetByID(created.ID)
	s.Equal(ErrBudgetNotFound, err)

	s.Equal(ErrBudgetNotFound, s.repo.Delete(created.ID))
}
