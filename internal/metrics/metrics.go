package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookups records the outcome of every brand lookup.
type Lookups struct {
	total      *prometheus.CounterVec
	duration   prometheus.Histogram
	confidence prometheus.Histogram
}

// NewLookups creates the lookup collectors and registers them with reg.
func NewLookups(reg prometheus.Registerer) *Lookups {
	l := &Lookups{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brand_lookups_total",
			Help: "Total brand lookups by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brand_lookup_duration_seconds",
			Help:    "Latency of brand provider requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brand_confidence_score",
			Help:    "Confidence of successfully normalized brand assets",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	if reg != nil {
		reg.MustRegister(l.total, l.duration, l.confidence)
	}
	return l
}

// ObserveLookup counts one lookup. Latency is only recorded for lookups that
// reached the provider, confidence only for successful ones.
func (l *Lookups) ObserveLookup(outcome string, latency time.Duration, confidence int) {
	if l == nil {
		return
	}
	l.total.WithLabelValues(outcome).Inc()
	if latency > 0 {
		l.duration.Observe(latency.Seconds())
	}
	if outcome == OutcomeSuccess {
		l.confidence.Observe(float64(confidence))
	}
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "not_found"
	OutcomeAPIError      = "api_error"
	OutcomeRequestFailed = "request_failed"
	OutcomeUnresolvable  = "unresolvable"
)
