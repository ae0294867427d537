package dto

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
)

// UpcomingHolidaysQuery selects how far ahead to look for events
type UpcomingHolidaysQuery struct {
	WindowDays int `query:"windowDays" validate:"omitempty,min=1,max=365"`
}

// HolidayInsightsQuery controls insight computation
type HolidayInsightsQuery struct {
	WindowDays int  `query:"windowDays" validate:"omitempty,min=1,max=365"`
	Force      bool `query:"force"`
}

// HolidayEventResponse represents a holiday event in API responses
type HolidayEventResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	CountryCode string    `json:"countryCode"`
	Type        string    `json:"type"`
	Tags        []string  `json:"tags"`
	Source      string    `json:"source"`
}

// NewHolidayEventResponse maps a holiday event model to its API representation
func NewHolidayEventResponse(e *models.HolidayEvent) *HolidayEventResponse {
	return &HolidayEventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		CountryCode: e.CountryCode,
		Type:        e.Type,
		Tags:        e.Tags,
		Source:      e.Source,
	}
}

// ListHolidaysResponse represents the response for listing upcoming holidays
type ListHolidaysResponse struct {
	Holidays []HolidayEventResponse `json:"holidays"`
}

// CategoryDeltaResponse is one ranked category contribution in an insight
type CategoryDeltaResponse struct {
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
}

// HolidayInsightResponse represents one computed spending insight
type HolidayInsightResponse struct {
	HolidayEventID           uuid.UUID               `json:"holidayEventId"`
	HolidayName              string                  `json:"holidayName"`
	HolidayDate              time.Time               `json:"holidayDate"`
	WindowStart              time.Time               `json:"windowStart"`
	WindowEnd                time.Time               `json:"windowEnd"`
	BaselineSpend            float64                 `json:"baselineSpend"`
	HolidaySpend             float64                 `json:"holidaySpend"`
	ExpectedChangePct        float64                 `json:"expectedChangePct"`
	RecommendedAdjustmentPct float64                 `json:"recommendedAdjustmentPct"`
	Confidence               string                  `json:"confidence"`
	Explanation              string                  `json:"explanation"`
	TopCategories            []CategoryDeltaResponse `json:"topCategories"`
	Status                   string                  `json:"status"`
	GeneratedAt              time.Time               `json:"generatedAt"`
}

// ListInsightsResponse represents the response for holiday insights
type ListInsightsResponse struct {
	Insights []HolidayInsightResponse `json:"insights"`
}

// SeedDemoDataRequest controls demo data generation
type SeedDemoDataRequest struct {
	Months int `json:"months" validate:"omitempty,min=1,max=36"`
}

// SeedDemoDataResponse reports what the demo seeder created
type SeedDemoDataResponse struct {
	TransactionsCreated int `json:"transactionsCreated"`
	BudgetsCreated      int `json:"budgetsCreated"`
	HolidaysSeeded      int `json:"holidaysSeeded"`
}
