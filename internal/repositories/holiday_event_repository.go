package repositories

import (
	"errors"
	"fmt"
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHolidayEventNotFound = errors.New("holiday event not found")
)

// holidayEventRepository implements HolidayEventRepositoryInterface
type holidayEventRepository struct {
	db *gorm.DB
}

// NewHolidayEventRepository creates a new holiday event repository
func NewHolidayEventRepository(db *gorm.DB) HolidayEventRepositoryInterface {
	return &holidayEventRepository{
		db: db,
	}
}

// Create creates a single holiday event
func (r *holidayEventRepository) Create(event *models.HolidayEvent) error {
	if event == nil {
		return errors.New("holiday event cannot be nil")
	}

	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create holiday event: %w", err)
	}
	return nil
}

// CreateBatch inserts multiple holiday events in one database transaction
func (r *holidayEventRepository) CreateBatch(events []models.HolidayEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return fmt.Errorf("failed to create holiday event batch: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a holiday event by ID
func (r *holidayEventRepository) GetByID(id uuid.UUID) (*models.HolidayEvent, error) {
	event := &models.HolidayEvent{ID: id}
	if err := r.db.First(event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHolidayEventNotFound
		}
		return nil, fmt.Errorf("failed to get holiday event: %w", err)
	}
	return event, nil
}

// GetInRange retrieves events for a country between start and end inclusive,
// ordered by date ascending
func (r *holidayEventRepository) GetInRange(countryCode string, start, end time.Time) ([]models.HolidayEvent, error) {
	var events []models.HolidayEvent
	if err := r.db.Where("country_code = ? AND date BETWEEN ? AND ?", countryCode, start, end).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get holiday events in range: %w", err)
	}
	return events, nil
}

// GetPriorOccurrences retrieves past occurrences of the same named event in
// a country, strictly before the target date and no older than the lookback
// horizon, newest first
func (r *holidayEventRepository) GetPriorOccurrences(name, countryCode string, before, since time.Time) ([]models.HolidayEvent, error) {
	var events []models.HolidayEvent
	if err := r.db.Where("name = ? AND country_code = ? AND date < ? AND date >= ?",
		name, countryCode, before, since).
		Order("date DESC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get prior holiday occurrences: %w", err)
	}
	return events, nil
}

// GetExistingKeys returns the dedupe keys of every stored event for a country
func (r *holidayEventRepository) GetExistingKeys(countryCode string) (map[models.HolidayEventKey]bool, error) {
	var events []models.HolidayEvent
	if err := r.db.Select("name, date, country_code").
		Where("country_code = ?", countryCode).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get existing holiday keys: %w", err)
	}

	keys := make(map[models.HolidayEventKey]bool, len(events))
	for i := range events {
		keys[events[i].Key()] = true
	}
	return keys, nil
}

// CountBySourceInYear counts events from one source for a country in a calendar year
func (r *holidayEventRepository) CountBySourceInYear(countryCode, source string, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var count int64
	if err := r.db.Model(&models.HolidayEvent{}).
		Where("country_code = ? AND source = ? AND date BETWEEN ? AND ?", countryCode, source, start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count holiday events by source: %w", err)
	}
	return count, nil
}
