// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Score backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Training TrainingConfig `toml:"training"`
	Storage  StorageConfig  `toml:"storage"`
}

// TrainingConfig maps training-related settings.
type TrainingConfig struct {
	Dir      *string  `toml:"dir"`
	User     *string  `toml:"user"`
	Levels   *int     `toml:"levels"`
	Diameter *float64 `toml:"diameter"`
	Shake    *float64 `toml:"shake"`
	FPS      *int     `toml:"fps"`
	Window   *bool    `toml:"window"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	ScoreBackend *string `toml:"score-backend"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ResolveDiameter returns d when it is usable, otherwise fallback and false.
func ResolveDiameter(d, fallback float64) (float64, bool) {
	if d > 0 {
		return d, true
	}
	return fallback, false
}

// ValidBackend reports whether name selects a known score backend.
func ValidBackend(name string) bool {
	return name == BackendJSON || name == BackendSQLite
}
