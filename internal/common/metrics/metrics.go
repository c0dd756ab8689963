// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_alert_lookups_total",
			Help: "Total number of restaurant safety lookups",
		},
		[]string{"status"},
	)

	LookupsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_alert_lookups_failed_total",
			Help: "Total number of failed lookups by error code",
		},
		[]string{"error_code"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "allergy_alert_lookup_duration_seconds",
			Help: "Duration of the external classification call in seconds",
		},
		[]string{"status"},
	)

	ProfileSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_alert_profile_submissions_total",
			Help: "Total number of profile submissions",
		},
		[]string{"result"},
	)
)
