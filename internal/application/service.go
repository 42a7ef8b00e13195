package application

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/liturgy-roster/internal/config"
	"github.com/example/liturgy-roster/internal/engine"
	"github.com/example/liturgy-roster/internal/roster"
)

// SnapshotStore persists the full roster state outside the process. The
// service treats it as opaque; implementations live in the persistence
// packages.
type SnapshotStore interface {
	Save(state *roster.State) error
	Load() (*roster.State, error)
}

// RosterService orchestrates the roster store and the assignment engine
// behind the operation surface exposed to the presentation layer. Mutating
// operations run as store transactions: one undo entry per committed
// operation, state untouched on failure.
type RosterService struct {
	store       *roster.Store
	engine      *engine.Engine
	cfg         config.Config
	location    *time.Location
	snapshots   SnapshotStore
	logger      *slog.Logger
	idGenerator func() string
	now         func() time.Time
}

// NewRosterService wires the service dependencies. snapshots may be nil,
// disabling save/load; idGenerator and now may be nil, defaulting to
// roster.NewID and time.Now; a nil logger defaults to slog.Default.
func NewRosterService(store *roster.Store, eng *engine.Engine, cfg config.Config, snapshots SnapshotStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) (*RosterService, error) {
	if store == nil || eng == nil {
		return nil, fmt.Errorf("application: store and engine are required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if idGenerator == nil {
		idGenerator = roster.NewID
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{
		store:       store,
		engine:      eng,
		cfg:         cfg,
		location:    loc,
		snapshots:   snapshots,
		logger:      logger,
		idGenerator: idGenerator,
		now:         now,
	}, nil
}

// PeriodInput selects a date range: either Month (YYYY-MM) or a From/To
// pair of ISO dates.
type PeriodInput struct {
	Month string
	From  string
	To    string
}

// IsZero reports whether no period was supplied.
func (p PeriodInput) IsZero() bool {
	return p.Month == "" && p.From == "" && p.To == ""
}

func (s *RosterService) parsePeriod(input PeriodInput) (roster.Period, error) {
	period, err := roster.ParsePeriod(input.Month, input.From, input.To, s.location)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("period", err.Error())
		return roster.Period{}, vErr
	}
	return period, nil
}

// fairnessPeriod is the default scope applied when a schedule operation
// omits its period: the fairness window length on both sides of now.
func (s *RosterService) fairnessPeriod() roster.Period {
	return roster.WindowAround(s.now().In(s.location), s.engine.FairWindowDays())
}

// viewPeriod is the default scope for listings and exports: from now through
// the configured number of view days.
func (s *RosterService) viewPeriod() roster.Period {
	now := s.now().In(s.location)
	return roster.Period{Start: now, End: now.AddDate(0, 0, s.cfg.General.DefaultViewDays)}
}

func (s *RosterService) findEvent(st *roster.State, identifier string) (roster.Event, error) {
	event, ok := st.FindEvent(identifier)
	if !ok {
		return roster.Event{}, fmt.Errorf("%w: event %s", ErrNotFound, identifier)
	}
	return event, nil
}

func (s *RosterService) findPerson(st *roster.State, id string) (roster.Person, error) {
	person, ok := st.People[id]
	if !ok {
		return roster.Person{}, fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	return person, nil
}
