// Package metrics exposes Prometheus instrumentation for scoring and narration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the scoring service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Engagement tiers assigned, by level
	EngagementLevels *prometheus.CounterVec

	// Lapse risk buckets assigned, by level
	LapseLevels *prometheus.CounterVec

	// Prospects surviving the minimum score per ranking call
	ProspectsReturned prometheus.Histogram

	// Narrative fallbacks by provider and reason
	NarrativeFallbacks *prometheus.CounterVec

	// Narrative cache lookups by result: hit, miss, error
	NarrativeCache *prometheus.CounterVec

	// Latency of scoring endpoints by operation
	ScoringLatency *prometheus.HistogramVec

	// Threshold reloads by outcome: applied, rejected
	ThresholdReloads *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EngagementLevels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_engagement_levels_total",
			Help: "Engagement tiers assigned by the scorer",
		}, []string{"level"}),

		LapseLevels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_lapse_risk_levels_total",
			Help: "Lapse risk levels assigned by the predictor",
		}, []string{"level"}),

		ProspectsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorcrm_prospects_returned",
			Help:    "Number of prospects returned per ranking call",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),

		NarrativeFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_narrative_fallbacks_total",
			Help: "Narratives served by the static template after a provider failure",
		}, []string{"provider", "reason"}),

		NarrativeCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_narrative_cache_total",
			Help: "Narrative cache lookups by result",
		}, []string{"result"}),

		ScoringLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donorcrm_scoring_duration_seconds",
			Help:    "Duration of scoring requests by operation, including data loading",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		ThresholdReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_threshold_reloads_total",
			Help: "Scoring threshold reloads by outcome",
		}, []string{"outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrementEngagement records an engagement tier.
func (m *Metrics) IncrementEngagement(level string) {
	if m != nil {
		m.EngagementLevels.WithLabelValues(level).Inc()
	}
}

// IncrementLapse records a lapse risk level.
func (m *Metrics) IncrementLapse(level string) {
	if m != nil {
		m.LapseLevels.WithLabelValues(level).Inc()
	}
}

// ObserveProspects records the size of a ranked prospect list.
func (m *Metrics) ObserveProspects(n int) {
	if m != nil {
		m.ProspectsReturned.Observe(float64(n))
	}
}

// IncrementNarrativeFallback records a provider fallback.
func (m *Metrics) IncrementNarrativeFallback(provider, reason string) {
	if m != nil {
		m.NarrativeFallbacks.WithLabelValues(provider, reason).Inc()
	}
}

// IncrementNarrativeCache records a cache lookup result.
func (m *Metrics) IncrementNarrativeCache(result string) {
	if m != nil {
		m.NarrativeCache.WithLabelValues(result).Inc()
	}
}

// ObserveScoring records how long an operation took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveScoring(operation string, start time.Time) {
	if m != nil {
		m.ScoringLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// IncrementThresholdReload records a reload outcome.
func (m *Metrics) IncrementThresholdReload(outcome string) {
	if m != nil {
		m.ThresholdReloads.WithLabelValues(outcome).Inc()
	}
}
