package dto

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
)

// UserResponse represents the authenticated user's profile
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	CountryCode   string     `json:"countryCode"`
	Timezone      string     `json:"timezone"`
	CultureTags   []string   `json:"cultureTags"`
	CalendarOptIn bool       `json:"calendarOptIn"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewUserResponse maps a user model to its API representation
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		CountryCode:   user.CountryCode,
		Timezone:      user.Timezone,
		CultureTags:   user.CultureTags,
		CalendarOptIn: user.CalendarOptIn,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// UpdatePreferencesRequest updates holiday and locale preferences.
// Nil fields are left unchanged.
type UpdatePreferencesRequest struct {
	CountryCode   *string   `json:"countryCode" validate:"omitempty,country_code"`
	Timezone      *string   `json:"timezone" validate:"omitempty,max=64"`
	CultureTags   *[]string `json:"cultureTags" validate:"omitempty,dive,min=1,max=50"`
	CalendarOptIn *bool     `json:"calendarOptIn"`
}

// ChangePasswordRequest contains a password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=12"`
}
