package repositories

import (
	"testing"
	"time"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestHolidayEventRepository(t *testing.T) {
	suite.Run(t, new(HolidayEventRepositorySuite))
}

type HolidayEventRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo HolidayEventRepositoryInterface
}

func (s *HolidayEventRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewHolidayEventRepository(s.db.DB)
}

func (s *HolidayEventRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *HolidayEventRepositorySuite) createEvent(name string, year int, month time.Month, day int, source string) *models.HolidayEvent {
	s.T().Helper()

	event := &models.HolidayEvent{
		Name:        name,
		Date:        time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		CountryCode: "US",
		Type:        models.HolidayTypePublic,
		Source:      source,
	}
	s.Require().NoError(s.repo.Create(event))
	return event
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_CreateAndGet() {
	created := s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)

	found, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.Equal("Christmas Day", found.Name)
	s.Equal(models.HolidaySourceCurated, found.Source)

	_, err = s.repo.GetByID(uuid.New())
	s.Equal(ErrHolidayEventNotFound, err)
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_CreateBatch() {
	events := []models.HolidayEvent{
		{Name: "New Year's Day", Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), CountryCode: "US", Type: models.HolidayTypePublic},
		{Name: "Thanksgiving", Date: time.Date(2025, time.November, 27, 0, 0, 0, 0, time.UTC), CountryCode: "US", Type: models.HolidayTypeCultural},
	}

	s.NoError(s.repo.CreateBatch(events))
	s.NoError(s.repo.CreateBatch(nil))

	stored, err := s.repo.GetInRange("US",
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Len(stored, 2)
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_GetInRange() {
	s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("New Year's Day", 2025, time.January, 1, models.HolidaySourceCurated)
	s.createEvent("Independence Day", 2025, time.July, 4, models.HolidaySourceCurated)

	events, err := s.repo.GetInRange("US",
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))

	s.NoError(err)
	s.Require().Len(events, 2)
	s.Equal("Christmas Day", events[0].Name, "results are date ascending")
	s.Equal("New Year's Day", events[1].Name)
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_GetInRangeScopedToCountry() {
	s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)

	events, err := s.repo.GetInRange("GB",
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))

	s.NoError(err)
	s.Empty(events)
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_GetPriorOccurrences() {
	s.createEvent("Christmas Day", 2021, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("Christmas Day", 2022, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("Christmas Day", 2023, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("Thanksgiving", 2023, time.November, 23, models.HolidaySourceCurated)

	before := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	since := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	priors, err := s.repo.GetPriorOccurrences("Christmas Day", "US", before, since)

	s.NoError(err)
	s.Require().Len(priors, 2, "the target date itself and dates past the horizon are excluded")
	s.Equal(2023, priors[0].Date.Year(), "newest first")
	s.Equal(2022, priors[1].Date.Year())
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_GetExistingKeys() {
	s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("New Year's Day", 2025, time.January, 1, models.HolidaySourceCurated)

	keys, err := s.repo.GetExistingKeys("US")

	s.NoError(err)
	s.Len(keys, 2)
	s.True(keys[models.HolidayEventKey{
		Name:        "Christmas Day",
		Date:        time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC),
		CountryCode: "US",
	}])
}

func (s *HolidayEventRepositorySuite) TestHolidayEventRepository_CountBySourceInYear() {
	s.createEvent("Christmas Day", 2024, time.December, 25, models.HolidaySourceCurated)
	s.createEvent("Thanksgiving", 2024, time.November, 28, models.HolidaySourceCalendarific)
	s.createEvent("New Year's Day", 2025, time.January, 1, models.HolidaySourceCalendarific)

	count, err := s.repo.CountBySourceInYear("US", models.HolidaySourceCalendarific, 2024)
	s.NoError(err)
	s.Equal(int64(1), count)

	count, err = s.repo.CountBySourceInYear("US", models.HolidaySourceCurated, 2024)
	s.NoError(err)
	s.Equal(int64(1), count)
}
