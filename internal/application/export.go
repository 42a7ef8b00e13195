package application

import (
	"bytes"
	"sort"

	"github.com/example/liturgy-roster/internal/export"
	"github.com/example/liturgy-roster/internal/roster"
)

// ExportCSV renders the period's schedule as CSV. An omitted period defaults
// to the view window.
func (s *RosterService) ExportCSV(input PeriodInput) ([]byte, error) {
	rows, err := s.Schedule(input)
	if err != nil {
		return nil, err
	}
	out := make([]export.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, export.Row{
			EventKey:   row.EventKey,
			Community:  row.Community,
			Start:      row.Start,
			Kind:       row.Kind,
			Role:       row.Role,
			PersonName: row.PersonName,
		})
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportICS renders the period's events as an iCalendar document, one VEVENT
// per event with its slot list in the description. Rows and event details
// come from the same state snapshot.
func (s *RosterService) ExportICS(input PeriodInput) ([]byte, error) {
	period, err := s.parsePeriod(input)
	if err != nil {
		return nil, err
	}
	if period.IsZero() {
		period = s.viewPeriod()
	}

	var out []export.CalendarEntry
	var buildErr error
	s.store.View(func(st *roster.State) {
		rows, err := s.scheduleRows(st, period)
		if err != nil {
			buildErr = err
			return
		}
		entries := make(map[string]*export.CalendarEntry)
		var order []string
		for _, row := range rows {
			entry, ok := entries[row.EventID]
			if !ok {
				event := st.Events[row.EventID]
				entry = &export.CalendarEntry{
					UID:       event.ID + "@liturgy-roster",
					EventKey:  row.EventKey,
					Community: roster.Communities[row.Community],
					Kind:      row.Kind,
					Start:     event.Start,
					End:       event.EffectiveEnd(s.cfg.DefaultEventDuration()),
				}
				entries[row.EventID] = entry
				order = append(order, row.EventID)
			}
			entry.Assignments = append(entry.Assignments, export.RoleAssignment{
				Role:       row.Role,
				PersonName: row.PersonName,
			})
		}
		sort.Strings(order)
		out = make([]export.CalendarEntry, 0, len(order))
		for _, eventID := range order {
			out = append(out, *entries[eventID])
		}
	})
	if buildErr != nil {
		return nil, buildErr
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, out, s.cfg.General.Timezone); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
