package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"
)

// curatedHoliday is a fixed-date entry in the built-in calendar
type curatedHoliday struct {
	Name  string
	Month time.Month
	Day   int
	Type  string
	Tags  []string
}

// curatedUSHolidays covers the recurring fixed-date events used when no
// external provider is configured. Movable observances are listed per year
// in curatedMovableHolidays.
var curatedUSHolidays = []curatedHoliday{
	{Name: "New Year's Day", Month: time.January, Day: 1, Type: models.HolidayTypePublic, Tags: []string{"national", "new year"}},
	{Name: "Valentine's Day", Month: time.February, Day: 14, Type: models.HolidayTypeCultural, Tags: []string{"observance"}},
	{Name: "Independence Day", Month: time.July, Day: 4, Type: models.HolidayTypePublic, Tags: []string{"national"}},
	{Name: "Halloween", Month: time.October, Day: 31, Type: models.HolidayTypeCultural, Tags: []string{"observance"}},
	{Name: "Christmas Eve", Month: time.December, Day: 24, Type: models.HolidayTypeCultural, Tags: []string{"christmas", "observance"}},
	{Name: "Christmas Day", Month: time.December, Day: 25, Type: models.HolidayTypePublic, Tags: []string{"christmas", "national"}},
	{Name: "New Year's Eve", Month: time.December, Day: 31, Type: models.HolidayTypeCultural, Tags: []string{"observance"}},
}

// curatedMovableHolidays pins year-specific dates for observances that do
// not fall on a fixed Gregorian day.
var curatedMovableHolidays = map[int][]models.HolidayEvent{
	2024: {
		{Name: "Eid al-Fitr", Date: time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"eid", "religious"}},
		{Name: "Diwali", Date: time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"diwali", "religious"}},
		{Name: "Thanksgiving", Date: time.Date(2024, time.November, 28, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypePublic, Tags: models.StringList{"national"}},
	},
	2025: {
		{Name: "Eid al-Fitr", Date: time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"eid", "religious"}},
		{Name: "Diwali", Date: time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"diwali", "religious"}},
		{Name: "Thanksgiving", Date: time.Date(2025, time.November, 27, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypePublic, Tags: models.StringList{"national"}},
	},
	2026: {
		{Name: "Eid al-Fitr", Date: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"eid", "religious"}},
		{Name: "Diwali", Date: time.Date(2026, time.November, 8, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"diwali", "religious"}},
		{Name: "Thanksgiving", Date: time.Date(2026, time.November, 26, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypePublic, Tags: models.StringList{"national"}},
	},
	2027: {
		{Name: "Eid al-Fitr", Date: time.Date(2027, time.March, 9, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"eid", "religious"}},
		{Name: "Diwali", Date: time.Date(2027, time.October, 29, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypeReligious, Tags: models.StringList{"diwali", "religious"}},
		{Name: "Thanksgiving", Date: time.Date(2027, time.November, 25, 0, 0, 0, 0, time.UTC), Type: models.HolidayTypePublic, Tags: models.StringList{"national"}},
	},
}

// curatedSeedYears is the span SeedCuratedEvents generates fixed-date
// entries for, relative to the current year.
const (
	curatedSeedYearsBack    = 2
	curatedSeedYearsForward = 1
)

// HolidayCalendarService maintains the stored holiday calendar, merging the
// curated seed with provider fetches.
type HolidayCalendarService struct {
	holidayEventRepo repositories.HolidayEventRepositoryInterface
	provider         HolidayProviderInterface
	logger           *slog.Logger
	now              func() time.Time
}

// NewHolidayCalendarService creates a new holiday calendar service
func NewHolidayCalendarService(
	holidayEventRepo repositories.HolidayEventRepositoryInterface,
	provider HolidayProviderInterface,
	logger *slog.Logger,
) HolidayCalendarServiceInterface {
	return &HolidayCalendarService{
		holidayEventRepo: holidayEventRepo,
		provider:         provider,
		logger:           logger,
		now:              time.Now,
	}
}

// EnsureEventsForRange fetches provider calendars for every year the range
// touches, skipping years that already hold provider data. Provider
// failures leave the stored calendar untouched.
func (s *HolidayCalendarService) EnsureEventsForRange(ctx context.Context, countryCode string, start, end time.Time) error {
	if s.provider == nil || !s.provider.Enabled() {
		return nil
	}

	for year := start.Year(); year <= end.Year(); year++ {
		count, err := s.holidayEventRepo.CountBySourceInYear(countryCode, models.HolidaySourceCalendarific, year)
		if err != nil {
			return fmt.Errorf("failed to check provider coverage: %w", err)
		}
		if count > 0 {
			continue
		}

		events := s.provider.FetchHolidays(ctx, countryCode, year)
		if len(events) == 0 {
			continue
		}

		created, err := s.storeNewEvents(countryCode, events)
		if err != nil {
			return err
		}

		s.logger.Info("holiday calendar updated",
			"country_code", countryCode,
			"year", year,
			"events_added", created)
	}

	return nil
}

// UpcomingEvents returns the holidays relevant to a user inside the lookahead
// window, filtered by culture tags when the user has any set.
func (s *HolidayCalendarService) UpcomingEvents(ctx context.Context, user *models.User, windowDays int) ([]models.HolidayEvent, error) {
	countryCode := user.CountryCode
	if countryCode == "" {
		countryCode = models.DefaultCountryCode
	}

	start := models.TruncateToDay(s.now())
	end := start.AddDate(0, 0, windowDays)

	if err := s.EnsureEventsForRange(ctx, countryCode, start, end); err != nil {
		// Calendar refresh failures are recoverable; serve whatever is stored
		s.logger.Warn("failed to refresh holiday calendar",
			"error", err,
			"country_code", countryCode)
	}

	events, err := s.holidayEventRepo.GetInRange(countryCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday events: %w", err)
	}

	if len(user.CultureTags) == 0 {
		return events, nil
	}

	filtered := make([]models.HolidayEvent, 0, len(events))
	for _, event := range events {
		if event.Tags.IntersectsWith(user.CultureTags) {
			filtered = append(filtered, event)
		}
	}

	return filtered, nil
}

// SeedCuratedEvents loads the built-in calendar for a country, skipping
// entries that already exist. Returns the number of events created.
func (s *HolidayCalendarService) SeedCuratedEvents(countryCode string) (int, error) {
	currentYear := s.now().Year()

	var events []models.HolidayEvent
	for year := currentYear - curatedSeedYearsBack; year <= currentYear+curatedSeedYearsForward; year++ {
		for _, h := range curatedUSHolidays {
			events = append(events, models.HolidayEvent{
				Name:        h.Name,
				Date:        time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC),
				CountryCode: countryCode,
				Type:        h.Type,
				Tags:        models.StringList(h.Tags),
				Source:      models.HolidaySourceCurated,
			})
		}
		for _, movable := range curatedMovableHolidays[year] {
			event := movable
			event.CountryCode = countryCode
			event.Source = models.HolidaySourceCurated
			events = append(events, event)
		}
	}

	return s.storeNewEvents(countryCode, events)
}

// storeNewEvents inserts the events not already present for the country,
// deduplicating on (name, date, country).
func (s *HolidayCalendarService) storeNewEvents(countryCode string, events []models.HolidayEvent) (int, error) {
	existing, err := s.holidayEventRepo.GetExistingKeys(countryCode)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing holiday keys: %w", err)
	}

	var fresh []models.HolidayEvent
	for _, event := range events {
		key := event.Key()
		if existing[key] {
			continue
		}
		existing[key] = true
		fresh = append(fresh, event)
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.holidayEventRepo.CreateBatch(fresh); err != nil {
		return 0, fmt.Errorf("failed to store holiday events: %w", err)
	}

	return len(fresh), nil
}
