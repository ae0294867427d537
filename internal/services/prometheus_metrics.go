package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsRecorded      *prometheus.CounterVec
	insightComputations       *prometheus.CounterVec
	insightComputeDuration    prometheus.Histogram
	insightCacheLookups       *prometheus.CounterVec
	providerFetches           *prometheus.CounterVec
	providerFetchDuration     prometheus.Histogram
	holidayEventsStored       prometheus.Gauge
	authenticationEventsTotal *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_recorded_total",
				Help: "Total number of transactions recorded",
			},
			[]string{"type"},
		),
		insightComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insight_computations_total",
				Help: "Total number of holiday insight computations",
			},
			[]string{"status", "confidence"},
		),
		insightComputeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "insight_computation_duration_milliseconds",
				Help:    "Holiday insight computation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		insightCacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insight_cache_lookups_total",
				Help: "Total number of insight cache lookups",
			},
			[]string{"result"},
		),
		providerFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holiday_provider_fetches_total",
				Help: "Total number of holiday provider fetch attempts",
			},
			[]string{"country_code", "result"},
		),
		providerFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "holiday_provider_fetch_duration_milliseconds",
				Help:    "Holiday provider fetch duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		holidayEventsStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "holiday_events_stored_total",
				Help: "Current number of stored holiday events",
			},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"action", "result"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "transaction_recorded":
		m.transactionsRecorded.WithLabelValues(tags["type"]).Inc()
	case "insight_computation":
		m.insightComputations.WithLabelValues(tags["status"], tags["confidence"]).Inc()
	case "insight_cache_lookup":
		if result := tags["result"]; result != "" {
			m.insightCacheLookups.WithLabelValues(result).Inc()
		}
	case "holiday_provider_fetch":
		m.providerFetches.WithLabelValues(tags["country_code"], tags["result"]).Inc()
	case "authentication_event":
		m.authenticationEventsTotal.WithLabelValues(tags["action"], tags["result"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "insight_computation":
		m.insightComputeDuration.Observe(float64(duration.Milliseconds()))
	case "holiday_provider_fetch":
		m.providerFetchDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "holiday_events_stored":
		m.holidayEventsStored.Set(value)
	}
}
