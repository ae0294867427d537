package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// Sufficiency thresholds: below either, an insight is reported as
	// insufficient rather than risking a confident-looking guess.
	minValidSamples      = 2
	minTotalTransactions = 5

	// Confidence thresholds over the per-sample spending change ratios
	highConfidenceMinSamples  = 3
	highConfidenceMaxVariance = 0.1

	maxTopCategories = 3

	insufficientDataExplanation = "We don't have enough history around this holiday yet. Add more transactions to unlock personalized insights."
)

var ErrInvalidWindowDays = errors.New("window days must be positive")

// InsightService computes holiday spending insights from a user's
// transaction history around prior occurrences of each upcoming holiday.
type InsightService struct {
	userRepo         repositories.UserRepositoryInterface
	transactionRepo  repositories.TransactionRepositoryInterface
	budgetRepo       repositories.BudgetRepositoryInterface
	holidayEventRepo repositories.HolidayEventRepositoryInterface
	insightRepo      repositories.HolidayInsightRepositoryInterface
	calendarService  HolidayCalendarServiceInterface
	config           config.InsightsConfig
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
	now              func() time.Time
}

// NewInsightService creates a new insight service
func NewInsightService(
	userRepo repositories.UserRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	holidayEventRepo repositories.HolidayEventRepositoryInterface,
	insightRepo repositories.HolidayInsightRepositoryInterface,
	calendarService HolidayCalendarServiceInterface,
	cfg *config.InsightsConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) InsightServiceInterface {
	return &InsightService{
		userRepo:         userRepo,
		transactionRepo:  transactionRepo,
		budgetRepo:       budgetRepo,
		holidayEventRepo: holidayEventRepo,
		insightRepo:      insightRepo,
		calendarService:  calendarService,
		config:           *cfg,
		metrics:          metrics,
		logger:           logger,
		now:              time.Now,
	}
}

// ComputeHolidayInsights returns one insight per upcoming holiday in the
// lookahead window. Cached insights are served until they expire unless
// force is set; every fresh computation is appended to the cache.
func (s *InsightService) ComputeHolidayInsights(ctx context.Context, userID uuid.UUID, windowDays int, force bool) ([]dto.HolidayInsightResponse, error) {
	if windowDays < 0 {
		return nil, ErrInvalidWindowDays
	}
	if windowDays == 0 {
		windowDays = s.config.DefaultWindowDays
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	events, err := s.calendarService.UpcomingEvents(ctx, user, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming holidays: %w", err)
	}

	responses := make([]dto.HolidayInsightResponse, 0, len(events))
	for i := range events {
		event := &events[i]

		insight, err := s.insightForEvent(user, event, force)
		if err != nil {
			return nil, err
		}

		responses = append(responses, *newInsightResponse(event, insight))
	}

	return responses, nil
}

func (s *InsightService) insightForEvent(user *models.User, event *models.HolidayEvent, force bool) (*models.HolidayInsight, error) {
	windowStart, windowEnd := EventWindow(event.Date)
	now := s.now()

	if !force {
		cached, err := s.insightRepo.GetLatestUnexpired(user.ID, event.ID, windowStart, now)
		if err == nil {
			s.recordCacheLookup("hit")
			return cached, nil
		}
		if !errors.Is(err, repositories.ErrInsightNotFound) {
			return nil, fmt.Errorf("failed to read insight cache: %w", err)
		}
		s.recordCacheLookup("miss")
	}

	start := time.Now()
	insight, err := s.computeInsight(user, event, windowStart, windowEnd, now)
	if s.metrics != nil {
		s.metrics.RecordProcessingTime("insight_computation", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter("insight_computation", map[string]string{
			"status":     insight.Status,
			"confidence": insight.Confidence,
		})
	}

	if err := s.insightRepo.Append(insight); err != nil {
		return nil, fmt.Errorf("failed to cache insight: %w", err)
	}

	return insight, nil
}

// sampleAccumulator collects per-occurrence measurements across the
// historical lookback.
type sampleAccumulator struct {
	validSamples  int
	totalTxCount  int64
	baselineSum   decimal.Decimal
	holidaySum    decimal.Decimal
	pctChanges    []float64
	categoryDelta map[string]decimal.Decimal
}

func (s *InsightService) computeInsight(user *models.User, event *models.HolidayEvent, windowStart, windowEnd, now time.Time) (*models.HolidayInsight, error) {
	since := event.Date.Add(-s.config.LookbackWindow())
	priors, err := s.holidayEventRepo.GetPriorOccurrences(event.Name, event.CountryCode, event.Date, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior occurrences: %w", err)
	}

	acc := &sampleAccumulator{
		categoryDelta: make(map[string]decimal.Decimal),
	}

	for i := range priors {
		if err := s.accumulateSample(user.ID, &priors[i], acc); err != nil {
			return nil, err
		}
	}

	if acc.validSamples < minValidSamples || acc.totalTxCount < minTotalTransactions {
		return s.insufficientInsight(user.ID, event.ID, windowStart, windowEnd, now), nil
	}

	samples := decimal.NewFromInt(int64(acc.validSamples))
	avgBaseline := acc.baselineSum.Div(samples)
	avgHoliday := acc.holidaySum.Div(samples)

	pctChange := 0.0
	if avgBaseline.IsPositive() {
		pctChange = avgHoliday.Sub(avgBaseline).Div(avgBaseline).InexactFloat64()
	}

	topCategories := s.rankCategories(acc)
	adjustment, err := s.recommendAdjustment(user.ID, now, topCategories)
	if err != nil {
		return nil, err
	}

	return &models.HolidayInsight{
		UserID:                   user.ID,
		HolidayEventID:           event.ID,
		WindowStart:              windowStart,
		WindowEnd:                windowEnd,
		BaselineSpend:            avgBaseline.Round(2),
		HolidaySpend:             avgHoliday.Round(2),
		PctChange:                pctChange,
		Confidence:               confidenceFor(acc.pctChanges),
		TopCategories:            topCategories,
		RecommendedAdjustmentPct: adjustment,
		Explanation:              buildExplanation(event.Name, acc.validSamples, pctChange, avgHoliday.Sub(avgBaseline), topCategories),
		Status:                   models.InsightStatusOK,
		GeneratedAt:              now,
		ExpiresAt:                now.Add(s.config.CacheTTL),
	}, nil
}

// accumulateSample folds one prior occurrence into the accumulator. The
// transaction count always counts toward sufficiency; occurrences without
// baseline spending contribute nothing else, since a change ratio against a
// zero baseline is meaningless.
func (s *InsightService) accumulateSample(userID uuid.UUID, prior *models.HolidayEvent, acc *sampleAccumulator) error {
	holidayStart, holidayEnd := EventWindow(prior.Date)
	baselineStart, baselineEnd := BaselineWindow(prior.Date)

	txCount, err := s.transactionRepo.CountExpensesInRange(userID, holidayStart, holidayEnd)
	if err != nil {
		return fmt.Errorf("failed to count holiday transactions: %w", err)
	}
	acc.totalTxCount += txCount

	baseline, err := s.transactionRepo.SumExpensesInRange(userID, baselineStart, baselineEnd)
	if err != nil {
		return fmt.Errorf("failed to sum baseline spending: %w", err)
	}
	if !baseline.IsPositive() {
		return nil
	}

	holiday, err := s.transactionRepo.SumExpensesInRange(userID, holidayStart, holidayEnd)
	if err != nil {
		return fmt.Errorf("failed to sum holiday spending: %w", err)
	}

	holidayByCategory, err := s.transactionRepo.SumExpensesByCategoryInRange(userID, holidayStart, holidayEnd)
	if err != nil {
		return fmt.Errorf("failed to sum holiday spending by category: %w", err)
	}

	baselineByCategory, err := s.transactionRepo.SumExpensesByCategoryInRange(userID, baselineStart, baselineEnd)
	if err != nil {
		return fmt.Errorf("failed to sum baseline spending by category: %w", err)
	}

	for category, holidayAmount := range holidayByCategory {
		delta := holidayAmount.Sub(baselineByCategory[category])
		acc.categoryDelta[category] = acc.categoryDelta[category].Add(delta)
	}

	acc.pctChanges = append(acc.pctChanges, holiday.Sub(baseline).Div(baseline).InexactFloat64())
	acc.baselineSum = acc.baselineSum.Add(baseline)
	acc.holidaySum = acc.holidaySum.Add(holiday)
	acc.validSamples++

	return nil
}

func (s *InsightService) insufficientInsight(userID, eventID uuid.UUID, windowStart, windowEnd, now time.Time) *models.HolidayInsight {
	return &models.HolidayInsight{
		UserID:                   userID,
		HolidayEventID:           eventID,
		WindowStart:              windowStart,
		WindowEnd:                windowEnd,
		BaselineSpend:            decimal.Zero,
		HolidaySpend:             decimal.Zero,
		PctChange:                0,
		Confidence:               models.ConfidenceLow,
		TopCategories:            models.CategoryDeltaList{},
		RecommendedAdjustmentPct: 0,
		Explanation:              insufficientDataExplanation,
		Status:                   models.InsightStatusInsufficientData,
		GeneratedAt:              now,
		ExpiresAt:                now.Add(s.config.CacheTTL),
	}
}

// rankCategories averages the accumulated category deltas, keeps the three
// largest, and drops anything that did not increase.
func (s *InsightService) rankCategories(acc *sampleAccumulator) models.CategoryDeltaList {
	samples := decimal.NewFromInt(int64(acc.validSamples))

	averaged := make(models.CategoryDeltaList, 0, len(acc.categoryDelta))
	for category, total := range acc.categoryDelta {
		averaged = append(averaged, models.CategoryDelta{
			Category: category,
			Delta:    total.Div(samples),
		})
	}

	sort.Slice(averaged, func(i, j int) bool {
		if averaged[i].Delta.Equal(averaged[j].Delta) {
			return averaged[i].Category < averaged[j].Category
		}
		return averaged[i].Delta.GreaterThan(averaged[j].Delta)
	})

	if len(averaged) > maxTopCategories {
		averaged = averaged[:maxTopCategories]
	}

	top := make(models.CategoryDeltaList, 0, len(averaged))
	for _, entry := range averaged {
		if !entry.Delta.IsPositive() {
			continue
		}
		entry.Delta = entry.Delta.Round(2)
		top = append(top, entry)
	}

	return top
}

// recommendAdjustment returns the strongest budget-cut signal across the top
// categories: the share of a category's expected increase that no longer
// fits in its remaining budget. Remaining budget is measured against the
// accounting period containing today, not the holiday.
func (s *InsightService) recommendAdjustment(userID uuid.UUID, today time.Time, topCategories models.CategoryDeltaList) (float64, error) {
	adjustment := 0.0

	for _, entry := range topCategories {
		budget, err := s.budgetRepo.GetByUserIDAndCategory(userID, entry.Category)
		if err != nil {
			if errors.Is(err, repositories.ErrBudgetNotFound) {
				continue
			}
			return 0, fmt.Errorf("failed to look up budget: %w", err)
		}

		periodStart, periodEnd := BudgetPeriodRange(budget.Period, today)
		spent, err := s.transactionRepo.SumExpensesForCategoryInRange(userID, entry.Category, periodStart, periodEnd)
		if err != nil {
			return 0, fmt.Errorf("failed to sum category spending: %w", err)
		}

		remaining := budget.Amount.Sub(spent)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		if entry.Delta.GreaterThan(remaining) && entry.Delta.IsPositive() {
			overflow := entry.Delta.Sub(remaining).Div(entry.Delta).InexactFloat64() * 100
			if overflow > adjustment {
				adjustment = overflow
			}
		}
	}

	return roundTo(adjustment, 1), nil
}

// confidenceFor grades the stability of the per-sample change ratios. Three
// or more samples with low spread earn high confidence; two samples are
// always medium; fewer stay low.
func confidenceFor(pctChanges []float64) string {
	n := len(pctChanges)
	if n >= highConfidenceMinSamples {
		mean := 0.0
		for _, pct := range pctChanges {
			mean += pct
		}
		mean /= float64(n)

		variance := 0.0
		for _, pct := range pctChanges {
			diff := pct - mean
			variance += diff * diff
		}
		variance /= float64(n)

		if variance <= highConfidenceMaxVariance {
			return models.ConfidenceHigh
		}
		return models.ConfidenceMedium
	}
	if n >= minValidSamples {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

func buildExplanation(holidayName string, samples int, pctChange float64, deltaAmount decimal.Decimal, topCategories models.CategoryDeltaList) string {
	sign := ""
	if pctChange >= 0 {
		sign = "+"
	}

	categories := "your usual categories"
	if len(topCategories) > 0 {
		names := make([]string, 0, len(topCategories))
		for _, entry := range topCategories {
			names = append(names, entry.Category)
		}
		categories = strings.Join(names, ", ")
	}

	return fmt.Sprintf("Based on your last %d %s periods, spending changed %s%.1f%% (~$%.0f), mostly in %s.",
		samples, holidayName, sign, pctChange*100, math.Abs(deltaAmount.InexactFloat64()), categories)
}

func newInsightResponse(event *models.HolidayEvent, insight *models.HolidayInsight) *dto.HolidayInsightResponse {
	topCategories := make([]dto.CategoryDeltaResponse, 0, len(insight.TopCategories))
	for _, entry := range insight.TopCategories {
		topCategories = append(topCategories, dto.CategoryDeltaResponse{
			Category: entry.Category,
			Delta:    entry.Delta.InexactFloat64(),
		})
	}

	return &dto.HolidayInsightResponse{
		HolidayEventID:           event.ID,
		HolidayName:              event.Name,
		HolidayDate:              event.Date,
		WindowStart:              insight.WindowStart,
		WindowEnd:                insight.WindowEnd,
		BaselineSpend:            insight.BaselineSpend.InexactFloat64(),
		HolidaySpend:             insight.HolidaySpend.InexactFloat64(),
		ExpectedChangePct:        roundTo(insight.PctChange*100, 1),
		RecommendedAdjustmentPct: insight.RecommendedAdjustmentPct,
		Confidence:               insight.Confidence,
		Explanation:              insight.Explanation,
		TopCategories:            topCategories,
		Status:                   insight.Status,
		GeneratedAt:              insight.GeneratedAt,
	}
}

func (s *InsightService) recordCacheLookup(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter("insight_cache_lookup", map[string]string{"result": result})
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
