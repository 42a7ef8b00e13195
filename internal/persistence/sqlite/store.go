// Package sqlite persists roster snapshots in a relational layout, one table
// per collection. Save replaces the whole snapshot inside one transaction,
// matching the whole-state semantics of the JSON backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS people (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	community  TEXT NOT NULL,
	roles      TEXT NOT NULL,
	morning    INTEGER NOT NULL,
	active     INTEGER NOT NULL,
	locale     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS availability_blocks (
	person_id  TEXT NOT NULL,
	start_at   TEXT NOT NULL,
	end_at     TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	community  TEXT NOT NULL,
	start_at   TEXT NOT NULL,
	end_at     TEXT,
	quantity   INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	pool       TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS assignments (
	event_id   TEXT NOT NULL,
	role       TEXT NOT NULL,
	person_id  TEXT NOT NULL,
	PRIMARY KEY (event_id, role)
);
CREATE TABLE IF NOT EXISTS series (
	id             TEXT PRIMARY KEY,
	base_event_id  TEXT NOT NULL,
	event_ids      TEXT NOT NULL DEFAULT '[]',
	kind           TEXT NOT NULL,
	pool           TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS recurrences (
	id          TEXT PRIMARY KEY,
	community   TEXT NOT NULL,
	base_start  TEXT NOT NULL,
	rule        TEXT NOT NULL,
	quantity    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	pool        TEXT NOT NULL DEFAULT '[]'
);
`

// Store persists snapshots in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open connects to the database and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTransaction runs fn inside a transaction, rolling back on error.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot with the given state.
func (s *Store) Save(state *roster.State) error {
	return s.withTransaction(context.Background(), func(tx *sql.Tx) error {
		for _, table := range []string{"people", "availability_blocks", "events", "assignments", "series", "recurrences"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := savePeople(tx, state); err != nil {
			return err
		}
		if err := saveEvents(tx, state); err != nil {
			return err
		}
		if err := saveSeries(tx, state); err != nil {
			return err
		}
		return saveRecurrences(tx, state)
	})
}

func savePeople(tx *sql.Tx, state *roster.State) error {
	for _, person := range state.People {
		roles, err := json.Marshal(person.Roles)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO people (id, name, community, roles, morning, active, locale) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			person.ID, person.Name, person.Community, string(roles), boolInt(person.Morning), boolInt(person.Active), person.Locale,
		)
		if err != nil {
			return fmt.Errorf("insert person %s: %w", person.ID, err)
		}
	}
	for personID, blocks := range state.Availability {
		for _, block := range blocks {
			_, err := tx.Exec(
				`INSERT INTO availability_blocks (person_id, start_at, end_at, note) VALUES (?, ?, ?, ?)`,
				personID, block.Start.Format(timeLayout), block.End.Format(timeLayout), block.Note,
			)
			if err != nil {
				return fmt.Errorf("insert block for %s: %w", personID, err)
			}
		}
	}
	return nil
}

func saveEvents(tx *sql.Tx, state *roster.State) error {
	for _, event := range state.Events {
		pool, err := json.Marshal(event.Pool)
		if err != nil {
			return err
		}
		var end sql.NullString
		if event.End != nil {
			end = sql.NullString{String: event.End.Format(timeLayout), Valid: true}
		}
		_, err = tx.Exec(
			`INSERT INTO events (id, community, start_at, end_at, quantity, kind, pool) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			event.ID, event.Community, event.Start.Format(timeLayout), end, event.Quantity, event.Kind, string(pool),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", event.ID, err)
		}
	}
	for eventID, slots := range state.Assignments {
		for role, personID := range slots {
			_, err := tx.Exec(
				`INSERT INTO assignments (event_id, role, person_id) VALUES (?, ?, ?)`,
				eventID, role, personID,
			)
			if err != nil {
				return fmt.Errorf("insert assignment %s/%s: %w", eventID, role, err)
			}
		}
	}
	return nil
}

func saveSeries(tx *sql.Tx, state *roster.State) error {
	for _, series := range state.Series {
		eventIDs, err := json.Marshal(series.EventIDs)
		if err != nil {
			return err
		}
		pool, err := json.Marshal(series.Pool)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO series (id, base_event_id, event_ids, kind, pool) VALUES (?, ?, ?, ?, ?)`,
			series.ID, series.BaseEventID, string(eventIDs), series.Kind, string(pool),
		)
		if err != nil {
			return fmt.Errorf("insert series %s: %w", series.ID, err)
		}
	}
	return nil
}

func saveRecurrences(tx *sql.Tx, state *roster.State) error {
	for _, rec := range state.Recurrences {
		pool, err := json.Marshal(rec.Pool)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO recurrences (id, community, base_start, rule, quantity, kind, pool) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Community, rec.BaseStart.Format(timeLayout), rec.Rule, rec.Quantity, rec.Kind, string(pool),
		)
		if err != nil {
			return fmt.Errorf("insert recurrence %s: %w", rec.ID, err)
		}
	}
	return nil
}

// Load reads the full snapshot. An empty database yields an empty state.
func (s *Store) Load() (*roster.State, error) {
	state := roster.NewState()
	if err := s.loadPeople(state); err != nil {
		return nil, err
	}
	if err := s.loadEvents(state); err != nil {
		return nil, err
	}
	if err := s.loadSeries(state); err != nil {
		return nil, err
	}
	if err := s.loadRecurrences(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) loadPeople(state *roster.State) error {
	rows, err := s.db.Query(`SELECT id, name, community, roles, morning, active, locale FROM people`)
	if err != nil {
		return fmt.Errorf("load people: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var person roster.Person
		var roles string
		var morning, active int
		if err := rows.Scan(&person.ID, &person.Name, &person.Community, &roles, &morning, &active, &person.Locale); err != nil {
			return fmt.Errorf("scan person: %w", err)
		}
		if err := json.Unmarshal([]byte(roles), &person.Roles); err != nil {
			return fmt.Errorf("decode roles of %s: %w", person.ID, err)
		}
		person.Morning = morning != 0
		person.Active = active != 0
		state.People[person.ID] = person
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load people: %w", err)
	}

	blockRows, err := s.db.Query(`SELECT person_id, start_at, end_at, note FROM availability_blocks`)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	defer blockRows.Close()
	for blockRows.Next() {
		var personID, start, end string
		var block roster.AvailabilityBlock
		if err := blockRows.Scan(&personID, &start, &end, &block.Note); err != nil {
			return fmt.Errorf("scan block: %w", err)
		}
		if block.Start, err = time.Parse(timeLayout, start); err != nil {
			return fmt.Errorf("decode block start: %w", err)
		}
		if block.End, err = time.Parse(timeLayout, end); err != nil {
			return fmt.Errorf("decode block end: %w", err)
		}
		state.Availability[personID] = append(state.Availability[personID], block)
	}
	return blockRows.Err()
}

func (s *Store) loadEvents(state *roster.State) error {
	rows, err := s.db.Query(`SELECT id, community, start_at, end_at, quantity, kind, pool FROM events`)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var event roster.Event
		var start, pool string
		var end sql.NullString
		if err := rows.Scan(&event.ID, &event.Community, &start, &end, &event.Quantity, &event.Kind, &pool); err != nil {
			return fmt.Errorf("scan event: %w", err)
		}
		if event.Start, err = time.Parse(timeLayout, start); err != nil {
			return fmt.Errorf("decode event start: %w", err)
		}
		if end.Valid {
			parsed, err := time.Parse(timeLayout, end.String)
			if err != nil {
				return fmt.Errorf("decode event end: %w", err)
			}
			event.End = &parsed
		}
		if err := json.Unmarshal([]byte(pool), &event.Pool); err != nil {
			return fmt.Errorf("decode pool of %s: %w", event.ID, err)
		}
		state.Events[event.ID] = event
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	slotRows, err := s.db.Query(`SELECT event_id, role, person_id FROM assignments`)
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var eventID, role, personID string
		if err := slotRows.Scan(&eventID, &role, &personID); err != nil {
			return fmt.Errorf("scan assignment: %w", err)
		}
		slots := state.Assignments[eventID]
		if slots == nil {
			slots = make(map[string]string)
			state.Assignments[eventID] = slots
		}
		slots[role] = personID
	}
	return slotRows.Err()
}

func (s *Store) loadSeries(state *roster.State) error {
	rows, err := s.db.Query(`SELECT id, base_event_id, event_ids, kind, pool FROM series`)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var series roster.Series
		var eventIDs, pool string
		if err := rows.Scan(&series.ID, &series.BaseEventID, &eventIDs, &series.Kind, &pool); err != nil {
			return fmt.Errorf("scan series: %w", err)
		}
		if err := json.Unmarshal([]byte(eventIDs), &series.EventIDs); err != nil {
			return fmt.Errorf("decode series events of %s: %w", series.ID, err)
		}
		if err := json.Unmarshal([]byte(pool), &series.Pool); err != nil {
			return fmt.Errorf("decode series pool of %s: %w", series.ID, err)
		}
		state.Series[series.ID] = series
	}
	return rows.Err()
}

func (s *Store) loadRecurrences(state *roster.State) error {
	rows, err := s.db.Query(`SELECT id, community, base_start, rule, quantity, kind, pool FROM recurrences`)
	if err != nil {
		return fmt.Errorf("load recurrences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec roster.Recurrence
		var baseStart, pool string
		if err := rows.Scan(&rec.ID, &rec.Community, &baseStart, &rec.Rule, &rec.Quantity, &rec.Kind, &pool); err != nil {
			return fmt.Errorf("scan recurrence: %w", err)
		}
		if rec.BaseStart, err = time.Parse(timeLayout, baseStart); err != nil {
			return fmt.Errorf("decode recurrence start: %w", err)
		}
		if err := json.Unmarshal([]byte(pool), &rec.Pool); err != nil {
			return fmt.Errorf("decode recurrence pool of %s: %w", rec.ID, err)
		}
		state.Recurrences[rec.ID] = rec
	}
	return rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
