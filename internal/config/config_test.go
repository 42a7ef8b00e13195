package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultCarriesEngineParameters(t *testing.T) {
	cfg := Default()

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "America/Sao_Paulo", cfg.General.Timezone)
	require.Equal(t, 110, cfg.General.OverlapMinutes)
	require.Equal(t, 12, cfg.General.MorningCutoffHour)
	require.Equal(t, 90, cfg.Fairness.FairWindowDays)
	require.Equal(t, 45, cfg.Fairness.RoleRotWindowDays)
	require.Equal(t, 2, cfg.Fairness.WorkloadTolerance)
	require.Equal(t, 80.0, cfg.Weights.LoadBalance)
	require.Equal(t, "json", cfg.Snapshot.Backend)
	require.NoError(t, cfg.Validate())
}

func TestPackTableFallsBackToDefaults(t *testing.T) {
	cfg := Default()
	table, err := cfg.PackTable()
	require.NoError(t, err)
	require.Equal(t, []string{"LIB", "CRU", "MIC"}, table[3])
	require.Len(t, table[8], 8)
}

func TestPackTableNormalizesConfiguredRoles(t *testing.T) {
	cfg := Default()
	cfg.Packs = PackConfig{"2": {"lib", "CERO1"}}

	table, err := cfg.PackTable()
	require.NoError(t, err)
	require.Equal(t, map[int][]string{2: {"LIB", "CER1"}}, table)
}

func TestPackTableRejections(t *testing.T) {
	cases := map[string]PackConfig{
		"non-numeric key": {"two": {"LIB", "CRU"}},
		"zero key":        {"0": {}},
		"length mismatch": {"3": {"LIB", "CRU"}},
		"unknown role":    {"1": {"XYZ"}},
	}
	for name, packs := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Packs = packs
			_, err := cfg.PackTable()
			require.Error(t, err)
		})
	}
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]func(*Config){
		"port out of range":   func(c *Config) { c.Server.Port = 70000 },
		"zero port":           func(c *Config) { c.Server.Port = 0 },
		"bad timezone":        func(c *Config) { c.General.Timezone = "Mars/Olympus" },
		"negative overlap":    func(c *Config) { c.General.OverlapMinutes = -1 },
		"zero event duration": func(c *Config) { c.General.DefaultEventMinutes = 0 },
		"cutoff out of range": func(c *Config) { c.General.MorningCutoffHour = 24 },
		"zero fair window":    func(c *Config) { c.Fairness.FairWindowDays = 0 },
		"negative weight":     func(c *Config) { c.Weights.Recency = -1 },
		"unknown backend":     func(c *Config) { c.Snapshot.Backend = "redis" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	content := "server:\n  port: 9090\nfairness:\n  fair_window_days: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ROSTER_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 30, cfg.Fairness.FairWindowDays)
	// Untouched keys keep their defaults.
	require.Equal(t, 45, cfg.Fairness.RoleRotWindowDays)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("ROSTER_CONFIG_PATH", path)
	t.Setenv("ROSTER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFailsOnMissingExplicitFile(t *testing.T) {
	t.Setenv("ROSTER_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestOverlapToleranceAndDuration(t *testing.T) {
	cfg := Default()
	require.Equal(t, 110*time.Minute, cfg.OverlapTolerance())
	require.Equal(t, 110*time.Minute, cfg.DefaultEventDuration())
}
