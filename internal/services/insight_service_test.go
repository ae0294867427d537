package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/repositories/repository_mocks"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InsightServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	userRepo         *repository_mocks.MockUserRepositoryInterface
	transactionRepo  *repository_mocks.MockTransactionRepositoryInterface
	budgetRepo       *repository_mocks.MockBudgetRepositoryInterface
	holidayEventRepo *repository_mocks.MockHolidayEventRepositoryInterface
	insightRepo      *repository_mocks.MockHolidayInsightRepositoryInterface
	calendarService  *service_mocks.MockHolidayCalendarServiceInterface
	metrics          *service_mocks.MockMetricsRecorderInterface
	service          *InsightService

	now    time.Time
	user   *models.User
	userID uuid.UUID
}

func TestInsightServiceSuite(t *testing.T) {
	suite.Run(t, new(InsightServiceTestSuite))
}

func (s *InsightServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.budgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.holidayEventRepo = repository_mocks.NewMockHolidayEventRepositoryInterface(s.ctrl)
	s.insightRepo = repository_mocks.NewMockHolidayInsightRepositoryInterface(s.ctrl)
	s.calendarService = service_mocks.NewMockHolidayCalendarServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)

	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordProcessingTime(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := &config.InsightsConfig{
		CacheTTL:           12 * time.Hour,
		LookbackYears:      2,
		LookbackMarginDays: 30,
		DefaultWindowDays:  30,
	}

	s.service = NewInsightService(
		s.userRepo,
		s.transactionRepo,
		s.budgetRepo,
		s.holidayEventRepo,
		s.insightRepo,
		s.calendarService,
		cfg,
		s.metrics,
		slog.Default(),
	).(*InsightService)

	s.now = date(2024, time.December, 1)
	s.service.now = func() time.Time { return s.now }

	s.userID = uuid.New()
	s.user = &models.User{
		ID:          s.userID,
		Email:       "insights@example.com",
		CountryCode: "US",
	}
}

func (s *InsightServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *InsightServiceTestSuite) christmasEvent() *models.HolidayEvent {
	return &models.HolidayEvent{
		ID:          uuid.New(),
		Name:        "Christmas Day",
		Date:        date(2024, time.December, 25),
		CountryCode: "US",
		Type:        models.HolidayTypePublic,
	}
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_NegativeWindowDays() {
	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, -1, false)

	s.ErrorIs(err, ErrInvalidWindowDays)
	s.Nil(insights)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_UserNotFound() {
	s.userRepo.EXPECT().GetByID(s.userID).Return(nil, repositories.ErrUserNotFound).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, false)

	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(insights)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_ZeroWindowUsesDefault() {
	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).Return(nil, nil).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 0, false)

	s.NoError(err)
	s.Empty(insights)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_CacheHit() {
	event := s.christmasEvent()
	windowStart, windowEnd := EventWindow(event.Date)

	cached := &models.HolidayInsight{
		UserID:                   s.userID,
		HolidayEventID:           event.ID,
		WindowStart:              windowStart,
		WindowEnd:                windowEnd,
		BaselineSpend:            decimal.NewFromInt(200),
		HolidaySpend:             decimal.NewFromInt(250),
		PctChange:                0.25,
		Confidence:               models.ConfidenceHigh,
		TopCategories:            models.CategoryDeltaList{{Category: "Gifts", Delta: decimal.NewFromInt(50)}},
		RecommendedAdjustmentPct: 10,
		Explanation:              "cached",
		Status:                   models.InsightStatusOK,
		GeneratedAt:              s.now.Add(-time.Hour),
		ExpiresAt:                s.now.Add(11 * time.Hour),
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).
		Return([]models.HolidayEvent{*event}, nil).Times(1)
	s.insightRepo.EXPECT().GetLatestUnexpired(s.userID, event.ID, windowStart, s.now).
		Return(cached, nil).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, false)

	s.NoError(err)
	s.Require().Len(insights, 1)
	s.Equal(event.ID, insights[0].HolidayEventID)
	s.Equal("Christmas Day", insights[0].HolidayName)
	s.Equal(25.0, insights[0].ExpectedChangePct)
	s.Equal(models.ConfidenceHigh, insights[0].Confidence)
	s.Equal("cached", insights[0].Explanation)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_FullComputation() {
	event := s.christmasEvent()
	windowStart, _ := EventWindow(event.Date)

	priors := []models.HolidayEvent{
		{ID: uuid.New(), Name: event.Name, Date: date(2023, time.December, 25), CountryCode: "US"},
		{ID: uuid.New(), Name: event.Name, Date: date(2022, time.December, 25), CountryCode: "US"},
		{ID: uuid.New(), Name: event.Name, Date: date(2021, time.December, 25), CountryCode: "US"},
	}
	holidayTotals := map[int]decimal.Decimal{
		2023: decimal.NewFromInt(110),
		2022: decimal.NewFromInt(112),
		2021: decimal.NewFromInt(111),
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).
		Return([]models.HolidayEvent{*event}, nil).Times(1)
	s.insightRepo.EXPECT().GetLatestUnexpired(s.userID, event.ID, windowStart, s.now).
		Return(nil, repositories.ErrInsightNotFound).Times(1)
	s.holidayEventRepo.EXPECT().GetPriorOccurrences(event.Name, "US", event.Date, gomock.Any()).
		Return(priors, nil).Times(1)

	s.transactionRepo.EXPECT().CountExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(int64(3), nil).Times(3)
	s.transactionRepo.EXPECT().SumExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, start, _ time.Time) (decimal.Decimal, error) {
			if start.Month() == time.November {
				return decimal.NewFromInt(100), nil
			}
			return holidayTotals[start.Year()], nil
		}).Times(6)
	s.transactionRepo.EXPECT().SumExpensesByCategoryInRange(s.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, start, _ time.Time) (map[string]decimal.Decimal, error) {
			if start.Month() == time.November {
				return map[string]decimal.Decimal{
					"Gifts":  decimal.NewFromInt(40),
					"Dining": decimal.NewFromInt(30),
				}, nil
			}
			return map[string]decimal.Decimal{
				"Gifts":  decimal.NewFromInt(90),
				"Dining": decimal.NewFromInt(21),
			}, nil
		}).Times(6)

	// Gifts rose by 50 on average; the monthly budget only has 20 left
	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Gifts").
		Return(&models.Budget{
			Amount:   decimal.NewFromInt(500),
			Period:   models.BudgetPeriodMonthly,
			Category: "Gifts",
		}, nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesForCategoryInRange(
		s.userID, "Gifts", date(2024, time.December, 1), date(2024, time.December, 31)).
		Return(decimal.NewFromInt(480), nil).Times(1)

	var appended *models.HolidayInsight
	s.insightRepo.EXPECT().Append(gomock.Any()).
		DoAndReturn(func(insight *models.HolidayInsight) error {
			appended = insight
			return nil
		}).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, false)

	s.NoError(err)
	s.Require().Len(insights, 1)

	insight := insights[0]
	s.Equal(models.InsightStatusOK, insight.Status)
	s.Equal(models.ConfidenceHigh, insight.Confidence)
	s.Equal(100.0, insight.BaselineSpend)
	s.Equal(111.0, insight.HolidaySpend)
	s.Equal(11.0, insight.ExpectedChangePct)
	s.Equal(60.0, insight.RecommendedAdjustmentPct)
	s.Require().Len(insight.TopCategories, 1)
	s.Equal("Gifts", insight.TopCategories[0].Category)
	s.Equal(50.0, insight.TopCategories[0].Delta)
	s.Equal("Based on your last 3 Christmas Day periods, spending changed +11.0% (~$11), mostly in Gifts.", insight.Explanation)

	s.Require().NotNil(appended)
	s.Equal(s.now.Add(12*time.Hour), appended.ExpiresAt)
	s.Equal(s.now, appended.GeneratedAt)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_InsufficientHistory() {
	event := s.christmasEvent()

	priors := []models.HolidayEvent{
		{ID: uuid.New(), Name: event.Name, Date: date(2023, time.December, 25), CountryCode: "US"},
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).
		Return([]models.HolidayEvent{*event}, nil).Times(1)
	s.holidayEventRepo.EXPECT().GetPriorOccurrences(event.Name, "US", event.Date, gomock.Any()).
		Return(priors, nil).Times(1)

	s.transactionRepo.EXPECT().CountExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(int64(10), nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(decimal.NewFromInt(100), nil).Times(2)
	s.transactionRepo.EXPECT().SumExpensesByCategoryInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(map[string]decimal.Decimal{"Gifts": decimal.NewFromInt(100)}, nil).Times(2)

	s.insightRepo.EXPECT().Append(gomock.Any()).Return(nil).Times(1)

	// One valid sample is below the two-sample minimum even with plenty of
	// transactions counted
	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, true)

	s.NoError(err)
	s.Require().Len(insights, 1)

	insight := insights[0]
	s.Equal(models.InsightStatusInsufficientData, insight.Status)
	s.Equal(models.ConfidenceLow, insight.Confidence)
	s.Equal(0.0, insight.BaselineSpend)
	s.Equal(0.0, insight.HolidaySpend)
	s.Equal(0.0, insight.ExpectedChangePct)
	s.Equal(0.0, insight.RecommendedAdjustmentPct)
	s.Empty(insight.TopCategories)
	s.Equal(insufficientDataExplanation, insight.Explanation)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_ZeroBaselineSamplesDoNotCount() {
	event := s.christmasEvent()

	priors := []models.HolidayEvent{
		{ID: uuid.New(), Name: event.Name, Date: date(2023, time.December, 25), CountryCode: "US"},
		{ID: uuid.New(), Name: event.Name, Date: date(2022, time.December, 25), CountryCode: "US"},
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).
		Return([]models.HolidayEvent{*event}, nil).Times(1)
	s.holidayEventRepo.EXPECT().GetPriorOccurrences(event.Name, "US", event.Date, gomock.Any()).
		Return(priors, nil).Times(1)

	s.transactionRepo.EXPECT().CountExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(int64(4), nil).Times(2)
	// No baseline spending in either year: tx counts still accumulate but no
	// ratio can be formed, so the result is insufficient data
	s.transactionRepo.EXPECT().SumExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(decimal.Zero, nil).Times(2)

	s.insightRepo.EXPECT().Append(gomock.Any()).Return(nil).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, true)

	s.NoError(err)
	s.Require().Len(insights, 1)
	s.Equal(models.InsightStatusInsufficientData, insights[0].Status)
}

func (s *InsightServiceTestSuite) TestConfidenceFor() {
	tests := []struct {
		name       string
		pctChanges []float64
		want       string
	}{
		{"three stable samples", []float64{0.10, 0.12, 0.11}, models.ConfidenceHigh},
		{"three volatile samples", []float64{1.0, -1.0, 0.5}, models.ConfidenceMedium},
		{"two samples", []float64{0.5, 0.6}, models.ConfidenceMedium},
		{"one sample", []float64{0.5}, models.ConfidenceLow},
		{"no samples", nil, models.ConfidenceLow},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, confidenceFor(tt.pctChanges))
		})
	}
}

func (s *InsightServiceTestSuite) TestRankCategories() {
	acc := &sampleAccumulator{
		validSamples: 2,
		categoryDelta: map[string]decimal.Decimal{
			"Gifts":     decimal.NewFromInt(300),
			"Travel":    decimal.NewFromInt(80),
			"Utilities": decimal.NewFromInt(-40),
			"Dining":    decimal.NewFromInt(10),
		},
	}

	top := s.service.rankCategories(acc)

	s.Require().Len(top, 3)
	s.Equal("Gifts", top[0].Category)
	s.True(top[0].Delta.Equal(decimal.NewFromInt(150)))
	s.Equal("Travel", top[1].Category)
	s.True(top[1].Delta.Equal(decimal.NewFromInt(40)))
	s.Equal("Dining", top[2].Category)
	s.True(top[2].Delta.Equal(decimal.NewFromInt(5)))
}

func (s *InsightServiceTestSuite) TestRankCategories_TiesBreakByName() {
	acc := &sampleAccumulator{
		validSamples: 1,
		categoryDelta: map[string]decimal.Decimal{
			"Travel": decimal.NewFromInt(50),
			"Dining": decimal.NewFromInt(50),
			"Gifts":  decimal.NewFromInt(50),
			"Pets":   decimal.NewFromInt(50),
		},
	}

	top := s.service.rankCategories(acc)

	s.Require().Len(top, 3)
	s.Equal("Dining", top[0].Category)
	s.Equal("Gifts", top[1].Category)
	s.Equal("Pets", top[2].Category)
}

func (s *InsightServiceTestSuite) TestRecommendAdjustment_NoBudgetsMeansZero() {
	top := models.CategoryDeltaList{{Category: "Gifts", Delta: decimal.NewFromInt(50)}}

	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Gifts").
		Return(nil, repositories.ErrBudgetNotFound).Times(1)

	adjustment, err := s.service.recommendAdjustment(s.userID, s.now, top)

	s.NoError(err)
	s.Equal(0.0, adjustment)
}

func (s *InsightServiceTestSuite) TestRecommendAdjustment_DeltaFitsInRemainingBudget() {
	top := models.CategoryDeltaList{{Category: "Gifts", Delta: decimal.NewFromInt(50)}}

	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Gifts").
		Return(&models.Budget{Amount: decimal.NewFromInt(500), Period: models.BudgetPeriodMonthly, Category: "Gifts"}, nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesForCategoryInRange(
		s.userID, "Gifts", date(2024, time.December, 1), date(2024, time.December, 31)).
		Return(decimal.NewFromInt(100), nil).Times(1)

	adjustment, err := s.service.recommendAdjustment(s.userID, s.now, top)

	s.NoError(err)
	s.Equal(0.0, adjustment)
}

func (s *InsightServiceTestSuite) TestRecommendAdjustment_OverspentBudgetClampsToZeroRemaining() {
	top := models.CategoryDeltaList{{Category: "Gifts", Delta: decimal.NewFromInt(200)}}

	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Gifts").
		Return(&models.Budget{Amount: decimal.NewFromInt(500), Period: models.BudgetPeriodMonthly, Category: "Gifts"}, nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesForCategoryInRange(
		s.userID, "Gifts", date(2024, time.December, 1), date(2024, time.December, 31)).
		Return(decimal.NewFromInt(600), nil).Times(1)

	adjustment, err := s.service.recommendAdjustment(s.userID, s.now, top)

	// Remaining budget floors at zero, so the whole delta overflows
	s.NoError(err)
	s.Equal(100.0, adjustment)
}

func (s *InsightServiceTestSuite) TestRecommendAdjustment_WeeklyBudgetUsesWeekContainingToday() {
	top := models.CategoryDeltaList{{Category: "Dining", Delta: decimal.NewFromInt(100)}}

	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Dining").
		Return(&models.Budget{Amount: decimal.NewFromInt(120), Period: models.BudgetPeriodWeekly, Category: "Dining"}, nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesForCategoryInRange(
		s.userID, "Dining", date(2024, time.December, 2), date(2024, time.December, 8)).
		Return(decimal.NewFromInt(45), nil).Times(1)

	adjustment, err := s.service.recommendAdjustment(s.userID, date(2024, time.December, 2), top)

	// Delta 100 against 75 remaining: 25% of the increase has nowhere to go
	s.NoError(err)
	s.Equal(25.0, adjustment)
}

func (s *InsightServiceTestSuite) TestComputeHolidayInsights_BudgetWindowAnchorsOnToday() {
	event := s.christmasEvent()
	windowStart, _ := EventWindow(event.Date)

	priors := []models.HolidayEvent{
		{ID: uuid.New(), Name: event.Name, Date: date(2023, time.December, 25), CountryCode: "US"},
		{ID: uuid.New(), Name: event.Name, Date: date(2022, time.December, 25), CountryCode: "US"},
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(s.user, nil).Times(1)
	s.calendarService.EXPECT().UpcomingEvents(gomock.Any(), s.user, 30).
		Return([]models.HolidayEvent{*event}, nil).Times(1)
	s.insightRepo.EXPECT().GetLatestUnexpired(s.userID, event.ID, windowStart, s.now).
		Return(nil, repositories.ErrInsightNotFound).Times(1)
	s.holidayEventRepo.EXPECT().GetPriorOccurrences(event.Name, "US", event.Date, gomock.Any()).
		Return(priors, nil).Times(1)

	s.transactionRepo.EXPECT().CountExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		Return(int64(4), nil).Times(2)
	s.transactionRepo.EXPECT().SumExpensesInRange(s.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, start, _ time.Time) (decimal.Decimal, error) {
			if start.Month() == time.November {
				return decimal.NewFromInt(100), nil
			}
			return decimal.NewFromInt(150), nil
		}).Times(4)
	s.transactionRepo.EXPECT().SumExpensesByCategoryInRange(s.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, start, _ time.Time) (map[string]decimal.Decimal, error) {
			if start.Month() == time.November {
				return map[string]decimal.Decimal{"Dining": decimal.NewFromInt(50)}, nil
			}
			return map[string]decimal.Decimal{"Dining": decimal.NewFromInt(100)}, nil
		}).Times(4)

	s.budgetRepo.EXPECT().GetByUserIDAndCategory(s.userID, "Dining").
		Return(&models.Budget{
			Amount:   decimal.NewFromInt(200),
			Period:   models.BudgetPeriodWeekly,
			Category: "Dining",
		}, nil).Times(1)
	// Today is Sunday Dec 1, so the weekly budget window is Nov 25 to Dec 1,
	// not the week the holiday falls in
	s.transactionRepo.EXPECT().SumExpensesForCategoryInRange(
		s.userID, "Dining", date(2024, time.November, 25), date(2024, time.December, 1)).
		Return(decimal.NewFromInt(180), nil).Times(1)

	s.insightRepo.EXPECT().Append(gomock.Any()).Return(nil).Times(1)

	insights, err := s.service.ComputeHolidayInsights(context.Background(), s.userID, 30, false)

	s.NoError(err)
	s.Require().Len(insights, 1)
	// Delta 50 against 20 remaining: 60% of the increase has nowhere to go
	s.Equal(60.0, insights[0].RecommendedAdjustmentPct)
}
