// Package metrics holds the Prometheus collectors for personalization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for each personalized request.
const (
	OutcomePersonalized = "personalized"
	OutcomeFallbackAll  = "fallback_all"
	OutcomeFallbackNone = "fallback_empty"
	OutcomeError        = "error"
)

var (
	// PersonalizedRequests counts personalized feed requests by outcome.
	PersonalizedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_personalized_requests_total",
			Help: "Total personalized property requests by outcome",
		},
		[]string{"outcome"},
	)

	// MatchedListings observes how many candidates survived matching.
	MatchedListings = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estate_personalized_matched_listings",
			Help:    "Listings returned per personalized request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// SkipReasons counts failed criteria.
	SkipReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_match_skip_reasons_total",
			Help: "Criteria failed by candidate listings",
		},
		[]string{"reason"},
	)

	// PreferenceCache counts preference cache lookups by result (hit, miss, error).
	PreferenceCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_preference_cache_total",
			Help: "Preference cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordOutcome increments the request counter for outcome.
func RecordOutcome(outcome string) {
	PersonalizedRequests.WithLabelValues(outcome).Inc()
}
