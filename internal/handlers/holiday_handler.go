package handlers

import (
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// HolidayHandler handles holiday calendar and insight endpoints
type HolidayHandler struct {
	userService     services.UserServiceInterface
	calendarService services.HolidayCalendarServiceInterface
	insightService  services.InsightServiceInterface
	windowDays      int
}

// NewHolidayHandler creates a new holiday handler
func NewHolidayHandler(
	userService services.UserServiceInterface,
	calendarService services.HolidayCalendarServiceInterface,
	insightService services.InsightServiceInterface,
	defaultWindowDays int,
) *HolidayHandler {
	return &HolidayHandler{
		userService:     userService,
		calendarService: calendarService,
		insightService:  insightService,
		windowDays:      defaultWindowDays,
	}
}

// ListUpcomingHolidays returns the holidays relevant to the user inside the
// lookahead window
// @Summary List upcoming holidays
// @Tags Holidays
// @Security BearerAuth
// @Produce json
// @Param windowDays query int false "Lookahead window in days (default 30, max 365)"
// @Success 200 {object} dto.ListHolidaysResponse "Upcoming holidays"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Router /holidays/upcoming [get]
func (h *HolidayHandler) ListUpcomingHolidays(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.UpcomingHolidaysQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return err
	}

	if query.WindowDays == 0 {
		query.WindowDays = h.windowDays
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	events, err := h.calendarService.UpcomingEvents(c.Request().Context(), user, query.WindowDays)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.ListHolidaysResponse{
		Holidays: make([]dto.HolidayEventResponse, 0, len(events)),
	}
	for i := range events {
		response.Holidays = append(response.Holidays, *dto.NewHolidayEventResponse(&events[i]))
	}

	return c.JSON(http.StatusOK, response)
}

// GetHolidayInsights computes spending insights for upcoming holidays
// @Summary Get holiday spending insights
// @Description Compute one insight per upcoming holiday from the user's
// @Description transaction history. Cached insights are served until they
// @Description expire unless force is set.
// @Tags Holidays
// @Security BearerAuth
// @Produce json
// @Param windowDays query int false "Lookahead window in days (default 30, max 365)"
// @Param force query bool false "Bypass the insight cache"
// @Success 200 {object} dto.ListInsightsResponse "Holiday insights"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 500 {object} errors.ErrorResponse "Computation failed - INSIGHT_002"
// @Router /holidays/insights [get]
func (h *HolidayHandler) GetHolidayInsights(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.HolidayInsightsQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return err
	}

	insights, err := h.insightService.ComputeHolidayInsights(c.Request().Context(), userID, query.WindowDays, query.Force)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendError(c, errors.InsightComputeFailed, errors.WithDetails("Failed to compute holiday insights"))
	}

	return c.JSON(http.StatusOK, dto.ListInsightsResponse{
		Insights: insights,
	})
}
