package services

import (
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
)

// UserService handles profile and preference operations
type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepositoryInterface, logger *slog.Logger) UserServiceInterface {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile retrieves a user's profile by ID
func (s *UserService) GetProfile(userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return user, nil
}

// UpdatePreferences updates the user's holiday and locale preferences.
// Nil request fields are left unchanged.
func (s *UserService) UpdatePreferences(userID uuid.UUID, req *dto.UpdatePreferencesRequest) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	updates := make(map[string]interface{})
	if req.CountryCode != nil {
		updates["country_code"] = *req.CountryCode
	}
	if req.Timezone != nil {
		updates["timezone"] = *req.Timezone
	}
	if req.CultureTags != nil {
		updates["culture_tags"] = models.StringList(*req.CultureTags)
	}
	if req.CalendarOptIn != nil {
		updates["calendar_opt_in"] = *req.CalendarOptIn
	}

	if len(updates) == 0 {
		return s.GetProfile(userID)
	}

	if err := s.userRepo.UpdateFields(userID, updates); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	s.logger.Info("user preferences updated",
		"user_id", userID,
		"fields", len(updates))

	return s.GetProfile(userID)
}
