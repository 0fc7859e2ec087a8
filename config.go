package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultBatchSize is the number of rows per target transaction during the
// copy phase. Large enough to amortize commit overhead, small enough to
// bound transaction and WAL growth on big tables.
const defaultBatchSize = 16384

// MigrationConfig holds the full TOML-driven migration configuration.
type MigrationConfig struct {
	Source       SourceConfig  `toml:"source"`
	Target       TargetConfig  `toml:"target"`
	ExtraColumns []ExtraColumn `toml:"extra_columns"`
	BatchSize    int           `toml:"batch_size"`
	AssumeYes    bool          `toml:"assume_yes"`
	Hooks        HooksConfig   `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve
	// relative SQL hook paths.
	configDir string
}

// SourceConfig identifies the source database engine and connection string.
type SourceConfig struct {
	Type string `toml:"type"` // "sqlite" or "mysql"
	DSN  string `toml:"dsn"`
}

type TargetConfig struct {
	DSN string `toml:"dsn"`
}

type HooksConfig struct {
	AfterCopy []string `toml:"after_copy"`
}

// loadConfig reads a TOML config file and returns a MigrationConfig with
// defaults applied.
func loadConfig(path string) (*MigrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := MigrationConfig{
		BatchSize: defaultBatchSize,
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if cfg.Source.Type == "" {
		return nil, fmt.Errorf("source.type is required (must be sqlite or mysql)")
	}
	if _, err := newSourceDB(cfg.Source.Type); err != nil {
		return nil, err
	}
	if cfg.Source.DSN == "" {
		return nil, fmt.Errorf("source.dsn is required")
	}
	if cfg.Target.DSN == "" {
		return nil, fmt.Errorf("target.dsn is required")
	}

	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive")
	}

	seen := make(map[string]bool)
	for i, ex := range cfg.ExtraColumns {
		if ex.Name == "" {
			return nil, fmt.Errorf("extra_columns[%d]: name is required", i)
		}
		if ex.Type == "" {
			return nil, fmt.Errorf("extra column %s: type is required", ex.Name)
		}
		if seen[ex.Name] {
			return nil, fmt.Errorf("extra column %s: duplicate name", ex.Name)
		}
		seen[ex.Name] = true
	}

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *MigrationConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
