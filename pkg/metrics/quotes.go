package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records pricing and quotation generation activity.
type QuoteMetrics struct {
	pricingDuration *prometheus.HistogramVec
	generated       *prometheus.CounterVec
	refineOutcome   *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	pricingDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_duration_seconds",
		Help:    "Duration of quotation breakdown computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"surface"})
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotations_generated_total",
		Help: "Quotations generated, by status outcome.",
	}, []string{"outcome"})
	refineOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "volume_refinements_total",
		Help: "Asynchronous volume refinement completions.",
	}, []string{"outcome"})
	reg.MustRegister(pricingDuration, generated, refineOutcome)
	return &QuoteMetrics{
		pricingDuration: pricingDuration,
		generated:       generated,
		refineOutcome:   refineOutcome,
	}
}

// ObservePricingDuration records how long a breakdown computation took.
func (q *QuoteMetrics) ObservePricingDuration(surface string, duration time.Duration) {
	if q == nil || q.pricingDuration == nil {
		return
	}
	q.pricingDuration.WithLabelValues(normalizeLabel(surface)).Observe(duration.Seconds())
}

// IncGenerated increments the generation counter for the given outcome.
func (q *QuoteMetrics) IncGenerated(outcome string) {
	if q == nil || q.generated == nil {
		return
	}
	q.generated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRefinement increments the volume refinement counter for the given outcome.
func (q *QuoteMetrics) IncRefinement(outcome string) {
	if q == nil || q.refineOutcome == nil {
		return
	}
	q.refineOutcome.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
