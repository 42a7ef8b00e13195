package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

func normalizeKind(value string) (string, error) {
	token := strings.ToUpper(strings.TrimSpace(value))
	switch token {
	case "":
		return roster.KindRegular, nil
	case roster.KindRegular, roster.KindSolemn, roster.KindSpecial:
		return token, nil
	default:
		return "", fmt.Errorf("kind %q must be one of REG, SOLENE, ESP", value)
	}
}

func (s *RosterService) validateEventInput(input EventInput) (roster.Event, *ValidationError) {
	vErr := &ValidationError{}
	community, err := roster.NormalizeCommunity(input.Community)
	if err != nil {
		vErr.add("community", err.Error())
	}
	start, err := s.parseStart(input.Start)
	if err != nil {
		vErr.add("start", err.Error())
	}
	if input.Quantity <= 0 {
		vErr.add("quantity", "quantity must be positive")
	}
	kind, err := normalizeKind(input.Kind)
	if err != nil {
		vErr.add("kind", err.Error())
	}
	if input.DurationMinutes < 0 {
		vErr.add("duration_minutes", "duration cannot be negative")
	}
	if vErr.HasErrors() {
		return roster.Event{}, vErr
	}

	event := roster.Event{
		Community: community,
		Start:     start,
		Quantity:  input.Quantity,
		Kind:      kind,
		Pool:      append([]string(nil), input.Pool...),
	}
	if input.DurationMinutes > 0 {
		end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)
		event.End = &end
	}
	return event, nil
}

// CreateEvent validates the input and adds a new event. Two events may not
// share a key, so community, start minute, and quantity together must be
// unique.
func (s *RosterService) CreateEvent(input EventInput) (roster.Event, error) {
	event, vErr := s.validateEventInput(input)
	if vErr != nil {
		return roster.Event{}, vErr
	}
	event.ID = s.idGenerator()

	err := s.store.Mutate("event.create", func(st *roster.State) error {
		if err := ensureKeyFree(st, event); err != nil {
			return err
		}
		if err := ensurePoolMembers(st, event.Pool); err != nil {
			return err
		}
		st.Events[event.ID] = event
		return nil
	})
	if err != nil {
		return roster.Event{}, err
	}
	s.logger.Info("event created", "event_id", event.ID, "event_key", event.Key())
	return event, nil
}

// UpdateEvent applies a partial update to an existing event. Assignments on
// the event are kept; run the conflict check afterwards if the start moved.
func (s *RosterService) UpdateEvent(id string, update EventUpdate) (roster.Event, error) {
	var updated roster.Event
	err := s.store.Mutate("event.update", func(st *roster.State) error {
		event, err := s.findEvent(st, id)
		if err != nil {
			return err
		}
		vErr := &ValidationError{}
		if update.Community != nil {
			community, err := roster.NormalizeCommunity(*update.Community)
			if err != nil {
				vErr.add("community", err.Error())
			}
			event.Community = community
		}
		if update.Start != nil {
			start, err := s.parseStart(*update.Start)
			if err != nil {
				vErr.add("start", err.Error())
			}
			event.Start = start
		}
		if update.Quantity != nil {
			if *update.Quantity <= 0 {
				vErr.add("quantity", "quantity must be positive")
			}
			event.Quantity = *update.Quantity
		}
		if update.Kind != nil {
			kind, err := normalizeKind(*update.Kind)
			if err != nil {
				vErr.add("kind", err.Error())
			}
			event.Kind = kind
		}
		if update.DurationMinutes != nil {
			switch {
			case *update.DurationMinutes < 0:
				vErr.add("duration_minutes", "duration cannot be negative")
			case *update.DurationMinutes == 0:
				event.End = nil
			default:
				end := event.Start.Add(time.Duration(*update.DurationMinutes) * time.Minute)
				event.End = &end
			}
		}
		if vErr.HasErrors() {
			return vErr
		}
		if err := ensureKeyFree(st, event); err != nil {
			return err
		}
		st.Events[event.ID] = event
		updated = event
		return nil
	})
	if err != nil {
		return roster.Event{}, err
	}
	return updated, nil
}

// DeleteEvent removes an event, its assignments, and its series links.
func (s *RosterService) DeleteEvent(id string) error {
	err := s.store.Mutate("event.remove", func(st *roster.State) error {
		event, err := s.findEvent(st, id)
		if err != nil {
			return err
		}
		delete(st.Events, event.ID)
		delete(st.Assignments, event.ID)
		for seriesID, series := range st.Series {
			series.EventIDs = removeID(series.EventIDs, event.ID)
			if series.BaseEventID == event.ID {
				delete(st.Series, seriesID)
				continue
			}
			st.Series[seriesID] = series
		}
		return nil
	})
	if err == nil {
		s.logger.Info("event removed", "event_id", id)
	}
	return err
}

// SetEventPool restricts the event to the given people. An empty list clears
// the restriction.
func (s *RosterService) SetEventPool(id string, personIDs []string) (roster.Event, error) {
	var updated roster.Event
	err := s.store.Mutate("event.pool", func(st *roster.State) error {
		event, err := s.findEvent(st, id)
		if err != nil {
			return err
		}
		if err := ensurePoolMembers(st, personIDs); err != nil {
			return err
		}
		event.Pool = append([]string(nil), personIDs...)
		st.Events[event.ID] = event
		updated = event
		return nil
	})
	if err != nil {
		return roster.Event{}, err
	}
	return updated, nil
}

// ListEvents returns the period's events in start order. A zero period lists
// everything.
func (s *RosterService) ListEvents(input PeriodInput) ([]roster.Event, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}
	var events []roster.Event
	s.store.View(func(st *roster.State) {
		for _, event := range st.EventsByStart() {
			if !period.IsZero() && !period.Contains(event.Start) {
				continue
			}
			events = append(events, event.Clone())
		}
	})
	return events, nil
}

// Schedule renders the period's slots, filled and unfilled, in event then
// pack-role order. An omitted period defaults to the view window.
func (s *RosterService) Schedule(input PeriodInput) ([]ScheduleRow, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}
	if period.IsZero() {
		period = s.viewPeriod()
	}

	var rows []ScheduleRow
	var buildErr error
	s.store.View(func(st *roster.State) {
		rows, buildErr = s.scheduleRows(st, period)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return rows, nil
}

// scheduleRows builds the period's slot listing from one state snapshot.
func (s *RosterService) scheduleRows(st *roster.State, period roster.Period) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	for _, event := range st.EventsByStart() {
		if !period.Contains(event.Start) {
			continue
		}
		roles, err := s.engine.RolesFor(event.Quantity)
		if err != nil {
			return nil, err
		}
		for _, role := range roles {
			row := ScheduleRow{
				EventID:   event.ID,
				EventKey:  event.Key(),
				Community: event.Community,
				Start:     event.Start,
				Kind:      event.Kind,
				Role:      role,
			}
			if personID, ok := st.Assignments[event.ID][role]; ok {
				row.PersonID = personID
				if person, ok := st.People[personID]; ok {
					row.PersonName = person.Name
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// UnfilledSlots lists the period's slots without an assignment. An omitted
// period defaults to the view window.
func (s *RosterService) UnfilledSlots(input PeriodInput) ([]FreeSlot, error) {
	rows, err := s.Schedule(input)
	if err != nil {
		return nil, err
	}
	var free []FreeSlot
	for _, row := range rows {
		if row.PersonID != "" {
			continue
		}
		free = append(free, FreeSlot{
			EventID:   row.EventID,
			EventKey:  row.EventKey,
			Community: row.Community,
			Start:     row.Start,
			Role:      row.Role,
		})
	}
	return free, nil
}

// ensureKeyFree rejects an event whose key collides with a different event.
func ensureKeyFree(st *roster.State, event roster.Event) error {
	key := event.Key()
	for _, other := range st.Events {
		if other.ID != event.ID && other.Key() == key {
			vErr := &ValidationError{}
			vErr.add("start", fmt.Sprintf("event key %s already exists", key))
			return vErr
		}
	}
	return nil
}

func ensurePoolMembers(st *roster.State, personIDs []string) error {
	for _, id := range personIDs {
		if _, ok := st.People[id]; !ok {
			return fmt.Errorf("%w: pool person %s", ErrNotFound, id)
		}
	}
	return nil
}
