// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for provider calls.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelbot_provider_requests_total",
			Help: "Calls to remote travel, geocoding and LLM providers by outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelbot_provider_request_duration_seconds",
			Help:    "Duration of remote provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	StructuredParses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelbot_structured_parse_total",
			Help: "Structured LLM parses by schema and whether the reply matched",
		},
		[]string{"schema", "outcome"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelbot_wizard_transitions_total",
			Help: "Confirmed wizard actions by source and target step",
		},
		[]string{"action", "from_step", "to_step"},
	)

	WizardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelbot_wizard_rejections_total",
			Help: "Wizard actions refused by validation or precondition checks",
		},
		[]string{"action", "error_code"},
	)

	// Sessions that lapse through the store TTL are not counted as ended;
	// rate(created) is the meaningful series, not created minus ended.
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelbot_sessions_created_total",
			Help: "Wizard sessions started",
		},
	)

	SessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelbot_sessions_ended_total",
			Help: "Wizard sessions explicitly ended by the client",
		},
	)
)

// ObserveProvider records one provider call.
func ObserveProvider(provider, operation, outcome string, started time.Time) {
	ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	ProviderDuration.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}

// OutcomeFor picks the outcome label for a call that returned n results.
func OutcomeFor(err error, n int) string {
	switch {
	case err != nil:
		return OutcomeError
	case n == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
