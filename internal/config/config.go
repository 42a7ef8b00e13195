package config

import (
	"fmt"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

// Config is the root configuration consumed by the engine and the HTTP
// layer. It is an injected, read-only value: nothing in the engine loads or
// persists it.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	General  GeneralConfig  `yaml:"general"`
	Fairness FairnessConfig `yaml:"fairness"`
	Weights  WeightConfig   `yaml:"weights"`
	Packs    PackConfig     `yaml:"packs"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"ROSTER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"ROSTER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"ROSTER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"ROSTER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"ROSTER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ROSTER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// GeneralConfig holds engine-wide parameters.
type GeneralConfig struct {
	Timezone            string `yaml:"timezone"              env:"ROSTER_TIMEZONE"              env-default:"America/Sao_Paulo"`
	DefaultViewDays     int    `yaml:"default_view_days"     env:"ROSTER_DEFAULT_VIEW_DAYS"     env-default:"30"`
	OverlapMinutes      int    `yaml:"overlap_minutes"       env:"ROSTER_OVERLAP_MINUTES"       env-default:"110"`
	DefaultEventMinutes int    `yaml:"default_event_minutes" env:"ROSTER_DEFAULT_EVENT_MINUTES" env-default:"110"`
	MorningCutoffHour   int    `yaml:"morning_cutoff_hour"   env:"ROSTER_MORNING_CUTOFF_HOUR"   env-default:"12"`
	DefaultLocale       string `yaml:"default_locale"        env:"ROSTER_DEFAULT_LOCALE"        env-default:"pt-BR"`
}

// FairnessConfig holds the lookback windows and the workload tolerance band.
type FairnessConfig struct {
	FairWindowDays    int `yaml:"fair_window_days"     env:"ROSTER_FAIR_WINDOW_DAYS"     env-default:"90"`
	RoleRotWindowDays int `yaml:"role_rot_window_days" env:"ROSTER_ROLE_ROT_WINDOW_DAYS" env-default:"45"`
	WorkloadTolerance int `yaml:"workload_tolerance"   env:"ROSTER_WORKLOAD_TOLERANCE"   env-default:"2"`
}

// WeightConfig holds the per-factor scoring weights. A zero weight disables
// its factor.
type WeightConfig struct {
	LoadBalance  float64 `yaml:"load_balance"  env:"ROSTER_WEIGHT_LOAD_BALANCE"  env-default:"80"`
	Recency      float64 `yaml:"recency"       env:"ROSTER_WEIGHT_RECENCY"       env-default:"1.2"`
	RoleRotation float64 `yaml:"role_rotation" env:"ROSTER_WEIGHT_ROLE_ROTATION" env-default:"6"`
	MorningPref  float64 `yaml:"morning_pref"  env:"ROSTER_WEIGHT_MORNING_PREF"  env-default:"1"`
	SolemnBonus  float64 `yaml:"solemn_bonus"  env:"ROSTER_WEIGHT_SOLEMN_BONUS"  env-default:"0.8"`
}

// PackConfig maps a required headcount to its ordered role codes. YAML keys
// are the quantities as strings.
type PackConfig map[string][]string

// SnapshotConfig selects the snapshot backend.
type SnapshotConfig struct {
	Backend string `yaml:"backend" env:"ROSTER_SNAPSHOT_BACKEND" env-default:"json"`
	Path    string `yaml:"path"    env:"ROSTER_SNAPSHOT_PATH"    env-default:"roster-state.json"`
	DSN     string `yaml:"dsn"     env:"ROSTER_SNAPSHOT_DSN"     env-default:"file:roster.db?_foreign_keys=on"`
}

// DefaultPacks mirrors the standard liturgical slot layout per headcount.
var DefaultPacks = map[int][]string{
	1: {"LIB"},
	2: {"LIB", "CRU"},
	3: {"LIB", "CRU", "MIC"},
	4: {"LIB", "CRU", "MIC", "TUR"},
	5: {"LIB", "CRU", "MIC", "TUR", "NAV"},
	6: {"LIB", "CRU", "MIC", "TUR", "NAV", "CAM"},
	7: {"LIB", "CRU", "MIC", "TUR", "NAV", "CER1", "CER2"},
	8: {"LIB", "CRU", "MIC", "TUR", "NAV", "CER1", "CER2", "CAM"},
}

// PackTable resolves the configured packs into quantity-keyed form, falling
// back to DefaultPacks when no packs section is present.
func (c Config) PackTable() (map[int][]string, error) {
	if len(c.Packs) == 0 {
		out := make(map[int][]string, len(DefaultPacks))
		for quantity, codes := range DefaultPacks {
			out[quantity] = append([]string(nil), codes...)
		}
		return out, nil
	}
	out := make(map[int][]string, len(c.Packs))
	for key, codes := range c.Packs {
		var quantity int
		if _, err := fmt.Sscanf(key, "%d", &quantity); err != nil || quantity <= 0 {
			return nil, fmt.Errorf("config: pack key %q must be a positive integer", key)
		}
		normalized, err := roster.NormalizeRoles(codes)
		if err != nil {
			return nil, fmt.Errorf("config: pack %q: %w", key, err)
		}
		if len(normalized) != quantity {
			return nil, fmt.Errorf("config: pack %q lists %d roles", key, len(normalized))
		}
		out[quantity] = normalized
	}
	return out, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.General.Timezone, err)
	}
	return loc, nil
}

// OverlapTolerance returns the conflict tolerance as a duration.
func (c Config) OverlapTolerance() time.Duration {
	return time.Duration(c.General.OverlapMinutes) * time.Minute
}

// DefaultEventDuration returns the standard event duration applied when an
// event has no explicit end.
func (c Config) DefaultEventDuration() time.Duration {
	return time.Duration(c.General.DefaultEventMinutes) * time.Minute
}

// Validate rejects configurations that would break engine invariants.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}
	if c.General.DefaultViewDays <= 0 {
		return fmt.Errorf("config: default_view_days must be positive")
	}
	if c.General.OverlapMinutes < 0 {
		return fmt.Errorf("config: overlap_minutes cannot be negative")
	}
	if c.General.DefaultEventMinutes <= 0 {
		return fmt.Errorf("config: default_event_minutes must be positive")
	}
	if c.General.MorningCutoffHour < 0 || c.General.MorningCutoffHour > 23 {
		return fmt.Errorf("config: morning_cutoff_hour must be within 0..23")
	}
	if c.Fairness.FairWindowDays < 1 {
		return fmt.Errorf("config: fair_window_days must be >= 1")
	}
	if c.Fairness.RoleRotWindowDays < 0 {
		return fmt.Errorf("config: role_rot_window_days cannot be negative")
	}
	if c.Fairness.WorkloadTolerance < 0 {
		return fmt.Errorf("config: workload_tolerance cannot be negative")
	}
	if c.Weights.LoadBalance < 0 || c.Weights.Recency < 0 || c.Weights.RoleRotation < 0 ||
		c.Weights.MorningPref < 0 || c.Weights.SolemnBonus < 0 {
		return fmt.Errorf("config: weights must be non-negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.PackTable(); err != nil {
		return err
	}
	switch c.Snapshot.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("config: snapshot backend %q must be json or sqlite", c.Snapshot.Backend)
	}
	return nil
}
