package testfixtures

import (
	"io"
	"log/slog"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/config"
	"github.com/example/liturgy-roster/internal/engine"
	"github.com/example/liturgy-roster/internal/roster"
)

// ServiceHarness bundles a fully wired roster service with its controllable
// dependencies for application-level tests.
type ServiceHarness struct {
	Service     *application.RosterService
	Store       *roster.Store
	Engine      *engine.Engine
	Config      config.Config
	Clock       *Clock
	IDGenerator *IDGenerator
}

// HarnessOption configures the harness before the service is built.
type HarnessOption func(*harnessSettings)

type harnessSettings struct {
	cfg       config.Config
	snapshots application.SnapshotStore
}

// WithConfig overrides the default configuration.
func WithConfig(cfg config.Config) HarnessOption {
	return func(s *harnessSettings) { s.cfg = cfg }
}

// WithSnapshots attaches a snapshot backend to the service.
func WithSnapshots(store application.SnapshotStore) HarnessOption {
	return func(s *harnessSettings) { s.snapshots = store }
}

// NewServiceHarness builds a roster service on UTC defaults with a
// deterministic clock and identifier sequence. It fails the construction by
// panicking, which is acceptable in tests.
func NewServiceHarness(opts ...HarnessOption) *ServiceHarness {
	settings := harnessSettings{cfg: TestConfig()}
	for _, opt := range opts {
		opt(&settings)
	}

	clock := NewClock()
	ids := NewIDGenerator()
	store := roster.NewStore(clock.NowFunc())
	eng, err := engine.New(settings.cfg)
	if err != nil {
		panic(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, err := application.NewRosterService(store, eng, settings.cfg, settings.snapshots, ids.NextFunc(), clock.NowFunc(), logger)
	if err != nil {
		panic(err)
	}
	return &ServiceHarness{
		Service:     service,
		Store:       store,
		Engine:      eng,
		Config:      settings.cfg,
		Clock:       clock,
		IDGenerator: ids,
	}
}

// TestConfig returns the default configuration pinned to UTC so fixture
// timestamps compare cleanly.
func TestConfig() config.Config {
	cfg := config.Default()
	cfg.General.Timezone = "UTC"
	return cfg
}
