package application

import (
	"errors"
	"fmt"

	"github.com/example/liturgy-roster/internal/engine"
	"github.com/example/liturgy-roster/internal/roster"
)

// Recalculate fills every unfilled slot of the period, ranking candidates by
// the fairness score. An omitted period defaults to the fairness window. The
// optional seed makes the tie-break permutation reproducible.
func (s *RosterService) Recalculate(input PeriodInput, seed *int64) (engine.RecalculateResult, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return engine.RecalculateResult{}, err
	}
	if period.IsZero() {
		period = s.fairnessPeriod()
	}

	var result engine.RecalculateResult
	err = s.store.Mutate("schedule.recalc", func(st *roster.State) error {
		result, err = s.engine.Recalculate(st, period, seed)
		return err
	})
	if err != nil {
		return engine.RecalculateResult{}, err
	}
	s.logger.Info("schedule recalculated", "filled", result.Filled, "skipped", len(result.Skipped))
	return result, nil
}

// ResetAssignments clears every assignment in the period, returning the
// number of slots emptied. An omitted period clears all assignments.
func (s *RosterService) ResetAssignments(input PeriodInput) (int, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return 0, err
	}
	removed := 0
	err = s.store.Mutate("assignment.reset", func(st *roster.State) error {
		removed = s.engine.Reset(st, period)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("assignments reset", "removed", removed)
	return removed, nil
}

// Assign places a person into a slot, replacing any current occupant,
// provided every hard eligibility rule passes. The event may be named by id
// or key.
func (s *RosterService) Assign(eventIdentifier, role, personID string) error {
	normalized, err := roster.NormalizeRole(role)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("role", err.Error())
		return vErr
	}
	return s.store.Mutate("assignment.apply", func(st *roster.State) error {
		event, err := s.findEvent(st, eventIdentifier)
		if err != nil {
			return err
		}
		person, err := s.findPerson(st, personID)
		if err != nil {
			return err
		}
		if err := ensureSlotExists(s.engine, event, normalized); err != nil {
			return err
		}
		return s.engine.Assign(st, event, normalized, person)
	})
}

// ClearAssignment empties one slot.
func (s *RosterService) ClearAssignment(eventIdentifier, role string) error {
	normalized, err := roster.NormalizeRole(role)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("role", err.Error())
		return vErr
	}
	return s.store.Mutate("assignment.clear", func(st *roster.State) error {
		event, err := s.findEvent(st, eventIdentifier)
		if err != nil {
			return err
		}
		return s.engine.Clear(st, event, normalized)
	})
}

// Swap exchanges the occupants of two assigned slots. Either both moves
// commit or neither does.
func (s *RosterService) Swap(eventA, roleA, eventB, roleB string) error {
	vErr := &ValidationError{}
	normalizedA, err := roster.NormalizeRole(roleA)
	if err != nil {
		vErr.add("role_a", err.Error())
	}
	normalizedB, err := roster.NormalizeRole(roleB)
	if err != nil {
		vErr.add("role_b", err.Error())
	}
	if vErr.HasErrors() {
		return vErr
	}
	return s.store.Mutate("assignment.swap", func(st *roster.State) error {
		first, err := s.findEvent(st, eventA)
		if err != nil {
			return err
		}
		second, err := s.findEvent(st, eventB)
		if err != nil {
			return err
		}
		return s.engine.Swap(st, first, normalizedA, second, normalizedB)
	})
}

// Suggest ranks the top candidates for a slot without changing anything. The
// same seed yields the same ordering as Recalculate would use.
func (s *RosterService) Suggest(eventIdentifier, role string, topN int, seed *int64) ([]Suggestion, error) {
	normalized, err := roster.NormalizeRole(role)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("role", err.Error())
		return nil, vErr
	}
	var suggestions []Suggestion
	var lookupErr error
	s.store.View(func(st *roster.State) {
		event, err := s.findEvent(st, eventIdentifier)
		if err != nil {
			lookupErr = err
			return
		}
		if err := ensureSlotExists(s.engine, event, normalized); err != nil {
			lookupErr = err
			return
		}
		for _, candidate := range s.engine.Suggest(st, event, normalized, topN, seed) {
			suggestions = append(suggestions, Suggestion{
				PersonID:  candidate.Person.ID,
				Name:      candidate.Person.Name,
				Community: candidate.Person.Community,
				Score:     candidate.Score,
			})
		}
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	return suggestions, nil
}

// CheckConflicts scans the period for unfilled slots and rule violations. An
// omitted period defaults to the fairness window.
func (s *RosterService) CheckConflicts(input PeriodInput) ([]engine.Violation, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}
	if period.IsZero() {
		period = s.fairnessPeriod()
	}
	var violations []engine.Violation
	var scanErr error
	s.store.View(func(st *roster.State) {
		violations, scanErr = s.engine.CheckConflicts(st, period)
	})
	if scanErr != nil {
		return nil, scanErr
	}
	return violations, nil
}

// Statistics aggregates per-person workload over the period. An omitted
// period defaults to the fairness window.
func (s *RosterService) Statistics(input PeriodInput) ([]engine.PersonStats, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}
	if period.IsZero() {
		period = s.fairnessPeriod()
	}
	var stats []engine.PersonStats
	s.store.View(func(st *roster.State) {
		stats = s.engine.Statistics(st, period)
	})
	return stats, nil
}

// Undo reverts the most recent mutating operation and returns its label.
func (s *RosterService) Undo() (string, error) {
	entry, err := s.store.Undo()
	if err != nil {
		return "", err
	}
	s.logger.Info("operation undone", "label", entry.Label)
	return entry.Label, nil
}

// ResetAll wipes the whole state and the undo history.
func (s *RosterService) ResetAll() {
	s.store.ResetAll()
	s.logger.Warn("state wiped")
}

// ErrNoSnapshotStore is returned when save or load runs without a configured
// snapshot backend.
var ErrNoSnapshotStore = errors.New("application: no snapshot store configured")

// SaveState persists the current state to the snapshot backend.
func (s *RosterService) SaveState() error {
	if s.snapshots == nil {
		return ErrNoSnapshotStore
	}
	if err := s.snapshots.Save(s.store.Snapshot()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.logger.Info("state saved")
	return nil
}

// LoadState replaces the current state with the snapshot backend's content.
// The undo history is cleared.
func (s *RosterService) LoadState() error {
	if s.snapshots == nil {
		return ErrNoSnapshotStore
	}
	state, err := s.snapshots.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	s.store.Replace(state)
	s.logger.Info("state loaded")
	return nil
}

// ensureSlotExists rejects roles that the event's pack does not contain.
func ensureSlotExists(eng *engine.Engine, event roster.Event, role string) error {
	roles, err := eng.RolesFor(event.Quantity)
	if err != nil {
		return err
	}
	for _, code := range roles {
		if code == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s on event %s", ErrNotFound, role, event.Key())
}
