// Package config holds all symplan configuration: planner defaults,
// resource limits, and logging. Config is loaded from a YAML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all symplan configuration.
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
}

// PlannerConfig selects the default pipeline.
type PlannerConfig struct {
	Generator string `yaml:"generator"` // lifted, grounded
	Algorithm string `yaml:"algorithm"` // brfs, astar
	Heuristic string `yaml:"heuristic"` // blind
}

// LimitsConfig bounds a run. Zero means unbounded.
type LimitsConfig struct {
	Timeout     string `yaml:"timeout"`       // e.g. "30s", "5m"
	MaxMemoryMB int    `yaml:"max_memory_mb"` // polled at expansion boundaries
}

// LoggingConfig mirrors logging.Options.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// Default returns production defaults: grounded breadth-first search, no
// limits, logging off.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Generator: "grounded",
			Algorithm: "brfs",
			Heuristic: "blind",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadOrDefault reads the config file if it exists and falls back to
// defaults (plus environment overrides) otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides lets SYMPLAN_* variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SYMPLAN_GENERATOR"); v != "" {
		c.Planner.Generator = v
	}
	if v := os.Getenv("SYMPLAN_ALGORITHM"); v != "" {
		c.Planner.Algorithm = v
	}
	if v := os.Getenv("SYMPLAN_TIMEOUT"); v != "" {
		c.Limits.Timeout = v
	}
	if v := os.Getenv("SYMPLAN_MAX_MEMORY_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxMemoryMB = mb
		}
	}
	if v := os.Getenv("SYMPLAN_DEBUG"); v != "" {
		c.Logging.DebugMode = v == "1" || v == "true"
	}
}

// TimeoutDuration parses the limits timeout; empty means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Limits.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Limits.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Limits.Timeout, err)
	}
	return d, nil
}
