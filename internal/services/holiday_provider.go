package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/models"
)

// tagKeywords are event-name fragments promoted to culture tags so that
// users can opt into calendars by tradition rather than by country alone.
var tagKeywords = []string{"ramadan", "eid", "diwali", "christmas"}

// CalendarificProvider fetches national holiday calendars from the
// Calendarific API. Every failure mode degrades to an empty result: the
// insight pipeline runs on whatever calendar data is already stored.
type CalendarificProvider struct {
	config     config.HolidaysConfig
	httpClient *http.Client
	metrics    MetricsRecorderInterface
	logger     *slog.Logger
}

// NewCalendarificProvider creates a holiday provider from configuration
func NewCalendarificProvider(cfg *config.HolidaysConfig, metrics MetricsRecorderInterface, logger *slog.Logger) HolidayProviderInterface {
	return &CalendarificProvider{
		config: *cfg,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Enabled reports whether the provider is configured for live fetches
func (p *CalendarificProvider) Enabled() bool {
	return p.config.ProviderEnabled()
}

type calendarificResponse struct {
	Response struct {
		Holidays []calendarificHoliday `json:"holidays"`
	} `json:"response"`
}

type calendarificHoliday struct {
	Name string `json:"name"`
	Date struct {
		ISO string `json:"iso"`
	} `json:"date"`
	Type []string `json:"type"`
}

// FetchHolidays returns the provider's holiday calendar for one country and
// year. Any transport, status, or decode failure yields an empty slice.
func (p *CalendarificProvider) FetchHolidays(ctx context.Context, countryCode string, year int) []models.HolidayEvent {
	if !p.Enabled() {
		return nil
	}

	start := time.Now()
	events, err := p.fetch(ctx, countryCode, year)
	if p.metrics != nil {
		p.metrics.RecordProcessingTime("holiday_provider_fetch", time.Since(start))
	}

	if err != nil {
		p.recordFetch(countryCode, "failure")
		p.logger.Warn("holiday provider fetch failed",
			"error", err,
			"country_code", countryCode,
			"year", year)
		return nil
	}

	p.recordFetch(countryCode, "success")
	return events
}

func (p *CalendarificProvider) fetch(ctx context.Context, countryCode string, year int) ([]models.HolidayEvent, error) {
	endpoint := fmt.Sprintf("%s/holidays", strings.TrimRight(p.config.CalendarificURL, "/"))

	query := url.Values{}
	query.Set("api_key", p.config.CalendarificAPIKey)
	query.Set("country", countryCode)
	query.Set("year", fmt.Sprintf("%d", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := make([]models.HolidayEvent, 0, len(payload.Response.Holidays))
	for _, holiday := range payload.Response.Holidays {
		if holiday.Date.ISO == "" {
			continue
		}

		date, err := parseCalendarDate(holiday.Date.ISO)
		if err != nil {
			continue
		}

		name := holiday.Name
		if name == "" {
			name = "Holiday"
		}

		events = append(events, models.HolidayEvent{
			Name:        name,
			Date:        date,
			CountryCode: countryCode,
			Type:        normalizeHolidayType(holiday.Type),
			Tags:        deriveHolidayTags(name, holiday.Type),
			Source:      models.HolidaySourceCalendarific,
		})
	}

	return events, nil
}

func (p *CalendarificProvider) recordFetch(countryCode, result string) {
	if p.metrics == nil {
		return
	}
	p.metrics.IncrementCounter("holiday_provider_fetch", map[string]string{
		"country_code": countryCode,
		"result":       result,
	})
}

// parseCalendarDate accepts the ISO forms Calendarific emits: plain dates
// and full timestamps with offsets.
func parseCalendarDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return models.TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}

func normalizeHolidayType(types []string) string {
	for _, t := range types {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "religious") {
			return models.HolidayTypeReligious
		}
		if strings.Contains(lower, "national") || strings.Contains(lower, "public") || strings.Contains(lower, "bank") {
			return models.HolidayTypePublic
		}
	}
	return models.HolidayTypeCultural
}

// deriveHolidayTags builds a sorted, deduplicated tag set from the
// provider's type labels and well-known name keywords.
func deriveHolidayTags(name string, types []string) models.StringList {
	seen := make(map[string]bool)

	for _, t := range types {
		normalized := strings.ToLower(t)
		normalized = strings.ReplaceAll(normalized, "/", " ")
		normalized = strings.ReplaceAll(normalized, "-", " ")
		for _, token := range strings.Fields(normalized) {
			seen[token] = true
		}
	}

	lowerName := strings.ToLower(name)
	for _, keyword := range tagKeywords {
		if strings.Contains(lowerName, keyword) {
			seen[keyword] = true
		}
	}

	tags := make(models.StringList, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags
}
