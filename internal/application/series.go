package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/liturgy-roster/internal/recurrence"
	"github.com/example/liturgy-roster/internal/roster"
)

// CreateRecurrence validates and registers a recurrence definition. Nothing
// is materialized until GenerateRecurrence runs.
func (s *RosterService) CreateRecurrence(input RecurrenceInput) (roster.Recurrence, error) {
	vErr := &ValidationError{}
	community, err := roster.NormalizeCommunity(input.Community)
	if err != nil {
		vErr.add("community", err.Error())
	}
	baseStart, err := s.parseStart(input.BaseStart)
	if err != nil {
		vErr.add("base_start", err.Error())
	}
	rule, err := recurrence.ParseRule(input.Rule)
	if err != nil {
		vErr.add("rule", err.Error())
	}
	if input.Quantity <= 0 {
		vErr.add("quantity", "quantity must be positive")
	}
	kind, err := normalizeKind(input.Kind)
	if err != nil {
		vErr.add("kind", err.Error())
	}
	if vErr.HasErrors() {
		return roster.Recurrence{}, vErr
	}

	rec := roster.Recurrence{
		ID:        s.idGenerator(),
		Community: community,
		BaseStart: baseStart,
		Rule:      rule.String(),
		Quantity:  input.Quantity,
		Kind:      kind,
		Pool:      append([]string(nil), input.Pool...),
	}
	err = s.store.Mutate("recurrence.create", func(st *roster.State) error {
		if err := ensurePoolMembers(st, rec.Pool); err != nil {
			return err
		}
		st.Recurrences[rec.ID] = rec
		return nil
	})
	if err != nil {
		return roster.Recurrence{}, err
	}
	return rec, nil
}

// DeleteRecurrence removes a recurrence definition. Events already generated
// from it stay in place.
func (s *RosterService) DeleteRecurrence(id string) error {
	return s.store.Mutate("recurrence.remove", func(st *roster.State) error {
		if _, ok := st.Recurrences[id]; !ok {
			return fmt.Errorf("%w: recurrence %s", ErrNotFound, id)
		}
		delete(st.Recurrences, id)
		return nil
	})
}

// ListRecurrences returns every recurrence ordered by community, then base
// start.
func (s *RosterService) ListRecurrences() []roster.Recurrence {
	var out []roster.Recurrence
	s.store.View(func(st *roster.State) {
		for _, rec := range st.Recurrences {
			out = append(out, rec.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Community != out[j].Community {
			return out[i].Community < out[j].Community
		}
		if !out[i].BaseStart.Equal(out[j].BaseStart) {
			return out[i].BaseStart.Before(out[j].BaseStart)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GenerateRecurrence expands a recurrence over the period and materializes
// the missing events, linking them into a new series. Occurrences whose key
// already exists are skipped, so regeneration is idempotent. The period is
// required: recurrences are never expanded over an unbounded range.
func (s *RosterService) GenerateRecurrence(id string, input PeriodInput) ([]roster.Event, error) {
	if input.IsZero() {
		vErr := &ValidationError{}
		vErr.add("period", "a month or from/to pair is required")
		return nil, vErr
	}
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}

	var created []roster.Event
	err = s.store.Mutate("recurrence.generate", func(st *roster.State) error {
		rec, ok := st.Recurrences[id]
		if !ok {
			return fmt.Errorf("%w: recurrence %s", ErrNotFound, id)
		}
		rule, err := recurrence.ParseRule(rec.Rule)
		if err != nil {
			return err
		}
		// The period is inclusive of its last day; extend the range to
		// that day's final instant.
		rangeEnd := period.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
		templates, err := recurrence.Generate(rule, rec.BaseStart, s.cfg.DefaultEventDuration(), period.Start, rangeEnd)
		if err != nil {
			return err
		}

		existing := make(map[string]string, len(st.Events))
		for _, event := range st.Events {
			existing[event.Key()] = event.ID
		}

		series := roster.Series{
			ID:   s.idGenerator(),
			Kind: rec.Kind,
			Pool: append([]string(nil), rec.Pool...),
		}
		for _, tpl := range templates {
			event := roster.Event{
				ID:        s.idGenerator(),
				Community: rec.Community,
				Start:     tpl.Start,
				Quantity:  rec.Quantity,
				Kind:      rec.Kind,
				Pool:      append([]string(nil), rec.Pool...),
			}
			if eventID, ok := existing[event.Key()]; ok {
				series.EventIDs = append(series.EventIDs, eventID)
				continue
			}
			st.Events[event.ID] = event
			series.EventIDs = append(series.EventIDs, event.ID)
			created = append(created, event)
		}
		if len(series.EventIDs) == 0 {
			return nil
		}
		series.BaseEventID = series.EventIDs[0]
		st.Series[series.ID] = series
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("recurrence generated", "recurrence_id", id, "created", len(created))
	return created, nil
}

// ListSeries returns every series ordered by id.
func (s *RosterService) ListSeries() []roster.Series {
	var out []roster.Series
	s.store.View(func(st *roster.State) {
		for _, series := range st.Series {
			out = append(out, series.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetSeriesPool restricts every event of the series to the given people. An
// empty list clears the restriction.
func (s *RosterService) SetSeriesPool(id string, personIDs []string) (roster.Series, error) {
	var updated roster.Series
	err := s.store.Mutate("series.pool", func(st *roster.State) error {
		series, ok := st.Series[id]
		if !ok {
			return fmt.Errorf("%w: series %s", ErrNotFound, id)
		}
		if err := ensurePoolMembers(st, personIDs); err != nil {
			return err
		}
		series.Pool = append([]string(nil), personIDs...)
		st.Series[id] = series
		for _, eventID := range series.EventIDs {
			event, ok := st.Events[eventID]
			if !ok {
				continue
			}
			event.Pool = append([]string(nil), personIDs...)
			st.Events[eventID] = event
		}
		updated = series
		return nil
	})
	if err != nil {
		return roster.Series{}, err
	}
	return updated, nil
}

// RebaseSeries shifts every event of the series by the offset between the
// base event's start and the new start. Assignments move with their events.
func (s *RosterService) RebaseSeries(id, newStart string) (roster.Series, error) {
	start, err := s.parseStart(newStart)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("start", err.Error())
		return roster.Series{}, vErr
	}

	var updated roster.Series
	err = s.store.Mutate("series.rebase", func(st *roster.State) error {
		series, ok := st.Series[id]
		if !ok {
			return fmt.Errorf("%w: series %s", ErrNotFound, id)
		}
		base, ok := st.Events[series.BaseEventID]
		if !ok {
			return fmt.Errorf("%w: base event %s", ErrNotFound, series.BaseEventID)
		}
		offset := start.Sub(base.Start)
		for _, eventID := range series.EventIDs {
			event, ok := st.Events[eventID]
			if !ok {
				continue
			}
			event.Start = event.Start.Add(offset)
			if event.End != nil {
				end := event.End.Add(offset)
				event.End = &end
			}
			st.Events[eventID] = event
		}
		updated = series
		return nil
	})
	if err != nil {
		return roster.Series{}, err
	}
	return updated, nil
}

// DeleteSeries removes the series link only; its events and their
// assignments stay in place.
func (s *RosterService) DeleteSeries(id string) error {
	return s.store.Mutate("series.remove", func(st *roster.State) error {
		if _, ok := st.Series[id]; !ok {
			return fmt.Errorf("%w: series %s", ErrNotFound, id)
		}
		delete(st.Series, id)
		return nil
	})
}
