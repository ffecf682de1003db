// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/watchlog/internal/validation"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	History HistoryConfig `toml:"history"`
	Top     TopConfig     `toml:"top"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig maps the viewing log settings.
type HistoryConfig struct {
	Path      *string `toml:"path"`
	DateOrder *string `toml:"date-order" config:"history.date-order" validate:"omitempty,dateorder"`
}

// TopConfig maps ranking defaults.
type TopConfig struct {
	Pie   *int    `toml:"pie" config:"top.pie" validate:"omitempty,min=1"`
	Bar   *int    `toml:"bar" config:"top.bar" validate:"omitempty,min=1"`
	Score *string `toml:"score" config:"top.score" validate:"omitempty,scoremode"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level" config:"log.level" validate:"omitempty,loglevel"`
	Format *string `toml:"format" config:"log.format" validate:"omitempty,oneof=console json"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an
// error; a value out of range is, and names its key.
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := validation.ValidateStruct(cfg); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.History.Path != nil {
		expanded := ExpandHome(*cfg.History.Path)
		cfg.History.Path = &expanded
	}
	return cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
