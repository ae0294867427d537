package services

import (
	"time"

	"expense-tracker/internal/models"
)

const (
	// Event windows span a week of run-up plus the days right after the
	// holiday, where most related spending lands.
	eventWindowDaysBefore = 7
	eventWindowDaysAfter  = 2

	// The baseline window is the same span four weeks earlier, far enough
	// back to sit outside the event window while staying seasonal.
	baselineShiftDays = 28
)

// EventWindow returns the spending window around a holiday date.
func EventWindow(holidayDate time.Time) (time.Time, time.Time) {
	day := models.TruncateToDay(holidayDate)
	return day.AddDate(0, 0, -eventWindowDaysBefore), day.AddDate(0, 0, eventWindowDaysAfter)
}

// BaselineWindow returns the comparison window for a holiday date: the
// event window shifted back by four weeks.
func BaselineWindow(holidayDate time.Time) (time.Time, time.Time) {
	start, end := EventWindow(holidayDate)
	return start.AddDate(0, 0, -baselineShiftDays), end.AddDate(0, 0, -baselineShiftDays)
}

// WeekRange returns the Monday-anchored week containing the target date.
func WeekRange(target time.Time) (time.Time, time.Time) {
	day := models.TruncateToDay(target)
	weekday := int(day.Weekday())
	// time.Weekday counts Sunday as 0; shift so Monday starts the week
	offset := (weekday + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthRange returns the calendar month containing the target date.
func MonthRange(target time.Time) (time.Time, time.Time) {
	day := models.TruncateToDay(target)
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// BudgetPeriodRange returns the budget accounting window containing the
// target date. Weekly budgets use the Monday week; every other period is
// tracked against the calendar month.
func BudgetPeriodRange(period string, target time.Time) (time.Time, time.Time) {
	if period == models.BudgetPeriodWeekly {
		return WeekRange(target)
	}
	return MonthRange(target)
}
