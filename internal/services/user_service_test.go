package services

import (
	"log/slog"
	"testing"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	userRepo *repository_mocks.MockUserRepositoryInterface
	service  UserServiceInterface
	userID   uuid.UUID
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.service = NewUserService(s.userRepo, slog.Default())
	s.userID = uuid.New()
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *UserServiceTestSuite) TestGetProfile_Success() {
	user := &models.User{
		ID:          s.userID,
		Email:       "profile@example.com",
		Name:        "Avery Holt",
		CountryCode: "US",
		CultureTags: models.StringList{"christmas"},
	}

	s.userRepo.EXPECT().GetByID(s.userID).Return(user, nil).Times(1)

	got, err := s.service.GetProfile(s.userID)

	s.NoError(err)
	s.Equal(user, got)
}

func (s *UserServiceTestSuite) TestGetProfile_NilUserID() {
	got, err := s.service.GetProfile(uuid.Nil)

	s.ErrorIs(err, ErrInvalidUserID)
	s.Nil(got)
}

func (s *UserServiceTestSuite) TestGetProfile_NotFound() {
	s.userRepo.EXPECT().GetByID(s.userID).Return(nil, repositories.ErrUserNotFound).Times(1)

	got, err := s.service.GetProfile(s.userID)

	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(got)
}

func (s *UserServiceTestSuite) TestUpdatePreferences_BuildsFieldMap() {
	countryCode := "GB"
	optOut := false
	tags := []string{"christmas", "eid"}
	req := &dto.UpdatePreferencesRequest{
		CountryCode:   &countryCode,
		CultureTags:   &tags,
		CalendarOptIn: &optOut,
	}

	var captured map[string]interface{}
	s.userRepo.EXPECT().UpdateFields(s.userID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, updates map[string]interface{}) error {
			captured = updates
			return nil
		}).Times(1)
	s.userRepo.EXPECT().GetByID(s.userID).
		Return(&models.User{ID: s.userID, CountryCode: "GB"}, nil).Times(1)

	user, err := s.service.UpdatePreferences(s.userID, req)

	s.NoError(err)
	s.Require().NotNil(user)
	s.Len(captured, 3)
	s.Equal("GB", captured["country_code"])
	s.Equal(models.StringList{"christmas", "eid"}, captured["culture_tags"])
	s.Equal(false, captured["calendar_opt_in"])
	s.NotContains(captured, "timezone")
}

func (s *UserServiceTestSuite) TestUpdatePreferences_EmptyRequestReturnsProfile() {
	user := &models.User{ID: s.userID, Email: "unchanged@example.com"}

	s.userRepo.EXPECT().GetByID(s.userID).Return(user, nil).Times(1)

	got, err := s.service.UpdatePreferences(s.userID, &dto.UpdatePreferencesRequest{})

	s.NoError(err)
	s.Equal(user, got)
}

func (s *UserServiceTestSuite) TestUpdatePreferences_NotFound() {
	timezone := "Europe/London"
	req := &dto.UpdatePreferencesRequest{Timezone: &timezone}

	s.userRepo.EXPECT().UpdateFields(s.userID, gomock.Any()).
		Return(repositories.ErrUserNotFound).Times(1)

	got, err := s.service.UpdatePreferences(s.userID, req)

	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(got)
}
