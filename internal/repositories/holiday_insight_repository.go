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
	ErrInsightNotFound = errors.New("insight not found")
)

// holidayInsightRepository implements HolidayInsightRepositoryInterface
type holidayInsightRepository struct {
	db *gorm.DB
}

// NewHolidayInsightRepository creates a new holiday insight repository
func NewHolidayInsightRepository(db *gorm.DB) HolidayInsightRepositoryInterface {
	return &holidayInsightRepository{
		db: db,
	}
}

// Append inserts a new cache row. Existing rows for the same key are never
// touched; reads resolve which row is current.
func (r *holidayInsightRepository) Append(insight *models.HolidayInsight) error {
	if insight == nil {
		return errors.New("insight cannot be nil")
	}

	if err := r.db.Create(insight).Error; err != nil {
		return fmt.Errorf("failed to append insight: %w", err)
	}
	return nil
}

// GetLatestUnexpired retrieves the most recently generated row for the cache
// key whose expiry is still ahead of now
func (r *holidayInsightRepository) GetLatestUnexpired(userID, holidayEventID uuid.UUID, windowStart, now time.Time) (*models.HolidayInsight, error) {
	var insight models.HolidayInsight
	if err := r.db.Where("user_id = ? AND holiday_event_id = ? AND window_start = ? AND expires_at > ?",
		userID, holidayEventID, windowStart, now).
		Order("generated_at DESC").
		First(&insight).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, fmt.Errorf("failed to get cached insight: %w", err)
	}
	return &insight, nil
}
