package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HolidayTypePublic    = "public"
	HolidayTypeReligious = "religious"
	HolidayTypeCultural  = "cultural"

	HolidaySourceCurated      = "curated"
	HolidaySourceCalendarific = "calendarific"
)

var (
	ErrInvalidHolidayType = errors.New("invalid holiday type")
)

// HolidayEvent is one occurrence of a named calendrical event in a country.
// (Name, Date, CountryCode) is unique; uniqueness is enforced by dedupe at
// insert time rather than a database constraint.
type HolidayEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Date        time.Time  `gorm:"type:date;not null;index:idx_holiday_events_country_date,priority:2" json:"date"`
	CountryCode string     `gorm:"type:varchar(2);not null;index:idx_holiday_events_country_date,priority:1" json:"country_code"`
	Type        string     `gorm:"type:varchar(20);not null" json:"type"`
	Tags        StringList `gorm:"type:text;default:'[]'" json:"tags"`
	Source      string     `gorm:"type:varchar(20);not null;default:'curated'" json:"source"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// HolidayEventKey identifies an event occurrence for dedupe purposes
type HolidayEventKey struct {
	Name        string
	Date        time.Time
	CountryCode string
}

// Key returns the dedupe key for this event, with the date truncated to a day
func (e *HolidayEvent) Key() HolidayEventKey {
	return HolidayEventKey{
		Name:        e.Name,
		Date:        TruncateToDay(e.Date),
		CountryCode: e.CountryCode,
	}
}

// BeforeCreate hook for HolidayEvent
func (e *HolidayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	if e.Source == "" {
		e.Source = HolidaySourceCurated
	}
	if e.Tags == nil {
		e.Tags = StringList{}
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}

	return e.Validate()
}

// Validate validates the holiday event fields
func (e *HolidayEvent) Validate() error {
	if e.Name == "" {
		return errors.New("holiday name is required")
	}

	if e.Date.IsZero() {
		return errors.New("holiday date is required")
	}

	if e.CountryCode == "" {
		return errors.New("country code is required")
	}

	if !IsValidHolidayType(e.Type) {
		return ErrInvalidHolidayType
	}

	if e.Source != HolidaySourceCurated && e.Source != HolidaySourceCalendarific {
		return fmt.Errorf("invalid holiday source: %s", e.Source)
	}

	return nil
}

// TableName returns the table name for HolidayEvent
func (e *HolidayEvent) TableName() string {
	return "holiday_events"
}

// IsValidHolidayType checks if the holiday type is valid
func IsValidHolidayType(holidayType string) bool {
	switch holidayType {
	case HolidayTypePublic, HolidayTypeReligious, HolidayTypeCultural:
		return true
	default:
		return false
	}
}

// TruncateToDay normalizes a timestamp to midnight UTC, the canonical form
// for calendar dates throughout the holiday domain
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
