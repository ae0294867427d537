package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"expense-tracker/internal/models"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerSuite))
}

type UserHandlerSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	userService     *service_mocks.MockUserServiceInterface
	passwordService *service_mocks.MockPasswordServiceInterface
	handler         *UserHandler
	e               *echo.Echo
	userID          uuid.UUID
}

func (s *UserHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userService = service_mocks.NewMockUserServiceInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.handler = NewUserHandler(s.userService, s.passwordService)
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *UserHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *UserHandlerSuite) TestGetProfile_Success() {
	user := &models.User{
		ID:          s.userID,
		Email:       "profile@example.com",
		Name:        "Avery Holt",
		Role:        models.RoleCustomer,
		CountryCode: "US",
		CultureTags: models.StringList{"christmas"},
	}

	s.userService.EXPECT().GetProfile(s.userID).Return(user, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/users/me", nil)
	c.Set("user_id", s.userID)

	err := s.handler.GetProfile(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	s.Equal("profile@example.com", data["email"])
	s.Equal("US", data["countryCode"])
}

func (s *UserHandlerSuite) TestGetProfile_Unauthenticated() {
	c, rec := newTestContext(s.e, http.MethodGet, "/api/users/me", nil)

	err := s.handler.GetProfile(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("AUTH_002", string(errorResp.Error.Code))
}

func (s *UserHandlerSuite) TestGetProfile_NotFound() {
	s.userService.EXPECT().GetProfile(s.userID).Return(nil, services.ErrUserNotFound).Times(1)

	c, rec := newTestContext(s.e, http.MethodGet, "/api/users/me", nil)
	c.Set("user_id", s.userID)

	err := s.handler.GetProfile(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *UserHandlerSuite) TestUpdatePreferences_Success() {
	body, _ := json.Marshal(map[string]interface{}{
		"countryCode": "GB",
		"cultureTags": []string{"christmas", "eid"},
	})

	updated := &models.User{
		ID:          s.userID,
		Email:       "profile@example.com",
		Name:        "Avery Holt",
		Role:        models.RoleCustomer,
		CountryCode: "GB",
		CultureTags: models.StringList{"christmas", "eid"},
	}

	s.userService.EXPECT().UpdatePreferences(s.userID, gomock.Any()).Return(updated, nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/users/me/preferences", body)
	c.Set("user_id", s.userID)

	err := s.handler.UpdatePreferences(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("Preferences updated successfully", response.Message)
}

func (s *UserHandlerSuite) TestUpdatePreferences_InvalidCountryCode() {
	body, _ := json.Marshal(map[string]string{"countryCode": "usa"})

	c, _ := newTestContext(s.e, http.MethodPut, "/api/users/me/preferences", body)
	c.Set("user_id", s.userID)

	err := s.handler.UpdatePreferences(c)
	s.Error(err)
}

func (s *UserHandlerSuite) TestChangePassword_Success() {
	body, _ := json.Marshal(map[string]string{
		"currentPassword": "OldSecure123!",
		"newPassword":     "NewSecure456!",
	})

	s.passwordService.EXPECT().UpdatePassword(s.userID, "OldSecure123!", "NewSecure456!").Return(nil).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/users/me/password", body)
	c.Set("user_id", s.userID)

	err := s.handler.ChangePassword(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("Password updated successfully", response.Message)
}

func (s *UserHandlerSuite) TestChangePassword_WrongCurrentPassword() {
	body, _ := json.Marshal(map[string]string{
		"currentPassword": "NotTheRightOne1!",
		"newPassword":     "NewSecure456!",
	})

	s.passwordService.EXPECT().UpdatePassword(s.userID, gomock.Any(), gomock.Any()).
		Return(services.ErrCurrentPasswordWrong).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/users/me/password", body)
	c.Set("user_id", s.userID)

	err := s.handler.ChangePassword(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("AUTH_001", string(errorResp.Error.Code))
}

func (s *UserHandlerSuite) TestChangePassword_WeakNewPassword() {
	body, _ := json.Marshal(map[string]string{
		"currentPassword": "OldSecure123!",
		"newPassword":     "StillTooPlainPassword",
	})

	s.passwordService.EXPECT().UpdatePassword(s.userID, gomock.Any(), gomock.Any()).
		Return(services.ErrPasswordNoNumber).Times(1)

	c, rec := newTestContext(s.e, http.MethodPut, "/api/users/me/password", body)
	c.Set("user_id", s.userID)

	err := s.handler.ChangePassword(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)

	var errorResp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	s.Equal("VALIDATION_001", string(errorResp.Error.Code))
}
