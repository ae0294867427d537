package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	InsightStatusOK               = "ok"
	InsightStatusInsufficientData = "insufficient_data"
)

var (
	ErrInvalidConfidence    = errors.New("invalid confidence level")
	ErrInvalidInsightStatus = errors.New("invalid insight status")
)

// CategoryDelta is the average spend increase for one category during an
// event window relative to its baseline
type CategoryDelta struct {
	Category string          `json:"category"`
	Delta    decimal.Decimal `json:"delta"`
}

// CategoryDeltaList is a ranked list of category deltas stored as JSON text.
// Like StringList, malformed stored payloads scan to an empty list.
type CategoryDeltaList []CategoryDelta

// Value implements the driver.Valuer interface
func (l CategoryDeltaList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements the sql.Scanner interface
func (l *CategoryDeltaList) Scan(value interface{}) error {
	if value == nil {
		*l = CategoryDeltaList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CategoryDeltaList", value)
	}

	if len(bytes) == 0 {
		*l = CategoryDeltaList{}
		return nil
	}

	var decoded []CategoryDelta
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		*l = CategoryDeltaList{}
		return nil
	}

	*l = decoded
	return nil
}

func (l CategoryDeltaList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CategoryDelta(l))
}

// HolidayInsight is one cached insight computation for a (user, event,
// window start) key. Rows are append-only: a fresh computation always
// inserts a new row and the most recently generated unexpired row wins.
// Nothing ever updates or deletes a row; staleness is judged purely by
// comparing ExpiresAt to the clock at read time.
type HolidayInsight struct {
	ID                       uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID                   uuid.UUID         `gorm:"type:uuid;not null;index:idx_holiday_insights_key,priority:1" json:"user_id"`
	HolidayEventID           uuid.UUID         `gorm:"type:uuid;not null;index:idx_holiday_insights_key,priority:2" json:"holiday_event_id"`
	WindowStart              time.Time         `gorm:"type:date;not null;index:idx_holiday_insights_key,priority:3" json:"window_start"`
	WindowEnd                time.Time         `gorm:"type:date;not null" json:"window_end"`
	BaselineSpend            decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"baseline_spend"`
	HolidaySpend             decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"holiday_spend"`
	PctChange                float64           `gorm:"default:0" json:"pct_change"`
	Confidence               string            `gorm:"type:varchar(10);not null;default:'low'" json:"confidence"`
	TopCategories            CategoryDeltaList `gorm:"type:text;default:'[]'" json:"top_categories"`
	RecommendedAdjustmentPct float64           `gorm:"default:0" json:"recommended_adjustment_pct"`
	Explanation              string            `gorm:"type:text" json:"explanation"`
	Status                   string            `gorm:"type:varchar(20);not null;default:'ok'" json:"status"`
	GeneratedAt              time.Time         `gorm:"not null;index" json:"generated_at"`
	ExpiresAt                time.Time         `gorm:"not null" json:"expires_at"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	HolidayEvent HolidayEvent `gorm:"foreignKey:HolidayEventID" json:"-"`
}

// BeforeCreate hook for HolidayInsight
func (i *HolidayInsight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	if i.Confidence == "" {
		i.Confidence = ConfidenceLow
	}
	if i.Status == "" {
		i.Status = InsightStatusOK
	}
	if i.TopCategories == nil {
		i.TopCategories = CategoryDeltaList{}
	}
	if i.GeneratedAt.IsZero() {
		i.GeneratedAt = time.Now()
	}

	return i.Validate()
}

// Validate validates the insight fields
func (i *HolidayInsight) Validate() error {
	if i.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if i.HolidayEventID == uuid.Nil {
		return errors.New("holiday event ID is required")
	}

	if !IsValidConfidence(i.Confidence) {
		return ErrInvalidConfidence
	}

	if !IsValidInsightStatus(i.Status) {
		return ErrInvalidInsightStatus
	}

	if i.RecommendedAdjustmentPct < 0 {
		return errors.New("recommended adjustment must not be negative")
	}

	return nil
}

// IsExpired reports whether the cached insight is stale at the given time
func (i *HolidayInsight) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// TableName returns the table name for HolidayInsight
func (i *HolidayInsight) TableName() string {
	return "holiday_insights"
}

// IsValidConfidence checks if the confidence label is valid
func IsValidConfidence(confidence string) bool {
	switch confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// IsValidInsightStatus checks if the insight status is valid
func IsValidInsightStatus(status string) bool {
	switch status {
	case InsightStatusOK, InsightStatusInsufficientData:
		return true
	default:
		return false
	}
}
