// Package scoring turns a donor's giving history into engagement, trend,
// major-gift prospect and lapse-risk assessments.
//
// Every function here is pure: no I/O, no shared mutable state, and the same
// input always produces the same output, so callers may score concurrently
// without coordination.
package scoring

// Engine binds the scorers to a Thresholds value. The zero value is not usable;
// construct with NewEngine or use the package-level functions, which run on
// DefaultThresholds.
type Engine struct {
	t Thresholds
}

// NewEngine validates t and returns an engine bound to it.
func NewEngine(t Thresholds) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Engine{t: t}, nil
}

// Thresholds returns a copy of the engine configuration.
func (e *Engine) Thresholds() Thresholds {
	return e.t
}

var defaultEngine = &Engine{t: DefaultThresholds()}

// Default returns the engine bound to DefaultThresholds.
func Default() *Engine {
	return defaultEngine
}

// ClassifyTrend runs the default engine's trend classifier.
func ClassifyTrend(history []DonationFact) GivingTrend {
	return defaultEngine.ClassifyTrend(history)
}

// ScoreEngagement runs the default engine's engagement scorer.
func ScoreEngagement(agg DonorAggregate) EngagementResult {
	return defaultEngine.ScoreEngagement(agg)
}

// RankProspects runs the default engine's prospect ranker. A threshold <= 0
// selects DefaultMajorGiftThreshold.
func RankProspects(pool []Candidate, threshold float64) []ProspectResult {
	return defaultEngine.RankProspects(pool, threshold)
}

// PredictLapseRisk runs the default engine's lapse predictor.
func PredictLapseRisk(in LapseInput) LapseRiskResult {
	return defaultEngine.PredictLapseRisk(in)
}
