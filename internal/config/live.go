package config

import (
	"sync/atomic"

	"donorcrm/internal/scoring"
)

// LiveEngine holds the engine currently serving requests. Readers take a
// snapshot per request so a reload never changes thresholds mid-computation.
type LiveEngine struct {
	p atomic.Pointer[scoring.Engine]
}

// NewLiveEngine starts with e, or the default engine when e is nil.
func NewLiveEngine(e *scoring.Engine) *LiveEngine {
	if e == nil {
		e = scoring.Default()
	}
	l := &LiveEngine{}
	l.p.Store(e)
	return l
}

// Engine returns the current engine.
func (l *LiveEngine) Engine() *scoring.Engine {
	return l.p.Load()
}

// Swap installs a new engine built from t. Invalid thresholds leave the
// current engine in place.
func (l *LiveEngine) Swap(t scoring.Thresholds) error {
	e, err := scoring.NewEngine(t)
	if err != nil {
		return err
	}
	l.p.Store(e)
	return nil
}
