// Package engine implements the fairness-weighted assignment core: hard
// eligibility filtering, multi-factor scoring, greedy slot selection with
// seeded tie-breaking, suggestions, and schedule diagnostics.
//
// The engine is pure with respect to state: every operation receives a
// *roster.State and mutates it (or not) in place. Transaction boundaries,
// locking, and undo belong to the roster.Store and are handled by the
// application layer wrapping these calls.
package engine

import (
	"time"

	"github.com/example/liturgy-roster/internal/config"
	"github.com/example/liturgy-roster/internal/roster"
)

// Engine evaluates eligibility and fairness scores from an injected,
// read-only configuration.
type Engine struct {
	overlap       time.Duration
	eventDuration time.Duration
	fairWindow    int
	roleWindow    int
	workloadBand  int
	morningCutoff int
	weights       config.WeightConfig
	packs         map[int][]string
}

// New builds an engine from the supplied configuration.
func New(cfg config.Config) (*Engine, error) {
	packs, err := cfg.PackTable()
	if err != nil {
		return nil, err
	}
	return &Engine{
		overlap:       cfg.OverlapTolerance(),
		eventDuration: cfg.DefaultEventDuration(),
		fairWindow:    cfg.Fairness.FairWindowDays,
		roleWindow:    cfg.Fairness.RoleRotWindowDays,
		workloadBand:  cfg.Fairness.WorkloadTolerance,
		morningCutoff: cfg.General.MorningCutoffHour,
		weights:       cfg.Weights,
		packs:         packs,
	}, nil
}

// FairWindowDays exposes the fairness lookback length for callers defaulting
// an omitted period.
func (e *Engine) FairWindowDays() int {
	return e.fairWindow
}

func (e *Engine) eventInterval(event roster.Event) (time.Time, time.Time) {
	return event.Start, event.EffectiveEnd(e.eventDuration)
}
