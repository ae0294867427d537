package handlers

import (
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService     services.UserServiceInterface
	passwordService services.PasswordServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserServiceInterface, passwordService services.PasswordServiceInterface) *UserHandler {
	return &UserHandler{
		userService:     userService,
		passwordService: passwordService,
	}
}

// GetProfile returns the authenticated user's profile
// @Summary Get current user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "User profile"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.NewUserResponse(user),
	})
}

// UpdatePreferences updates the user's holiday and locale preferences
// @Summary Update user preferences
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Preference updates"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /users/me/preferences [put]
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userService.UpdatePreferences(userID, &req)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewUserResponse(user),
		Message: "Preferences updated successfully",
	})
}

// ChangePassword updates the user's password
// @Summary Change password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Password change payload"
// @Success 200 {object} SuccessResponse{message=string} "Password updated"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_001 or AUTH_002"
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.passwordService.UpdatePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch err {
		case services.ErrCurrentPasswordWrong:
			return SendError(c, errors.AuthInvalidCredentials, errors.WithDetails("Current password is incorrect"))
		case services.ErrUserNotFound:
			return SendError(c, errors.UserNotFound)
		case services.ErrSamePassword:
			return SendError(c, errors.ValidationGeneral, errors.WithDetails("New password must be different from current password"))
		case services.ErrPasswordTooShort, services.ErrPasswordTooLong,
			services.ErrPasswordNoUppercase, services.ErrPasswordNoLowercase,
			services.ErrPasswordNoNumber, services.ErrPasswordNoSpecial:
			return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Password updated successfully",
	})
}
