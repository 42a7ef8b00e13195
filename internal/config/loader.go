package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags). The file path is
// taken from ROSTER_CONFIG_PATH (fallback "./roster.yaml"). A missing file
// is only an error when the path was set explicitly.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("ROSTER_CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./roster.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the built-in configuration, used by tests and by callers
// embedding the engine without a config file.
func Default() Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		// env-default tags only; ReadEnv cannot fail on them.
		panic(err)
	}
	return cfg
}
