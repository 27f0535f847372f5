// Package config loads dtypegen settings from defaults, TOML files and
// DTYPEGEN_* environment variables.
package config

import (
	"fmt"
	"time"
)

// Config represents the dtypegen configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" json:"generator" yaml:"generator"`
	Build     BuildConfig     `mapstructure:"build" toml:"build" json:"build" yaml:"build"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
}

// GeneratorConfig configures template transformation
type GeneratorConfig struct {
	Marker           string   `mapstructure:"marker" toml:"marker" json:"marker" yaml:"marker"`                                             // Template filename infix (default: "dtype")
	Datatypes        []string `mapstructure:"datatypes" toml:"datatypes" json:"datatypes" yaml:"datatypes"`                                 // Canonical datatype list, in initializer order
	DefaultDatatypes []string `mapstructure:"default_datatypes" toml:"default_datatypes" json:"default_datatypes" yaml:"default_datatypes"` // Selection for templates without a directive
	Operations       []string `mapstructure:"operations" toml:"operations" json:"operations" yaml:"operations"`                             // Initializer slots per datatype
	Sentinel         string   `mapstructure:"sentinel" toml:"sentinel" json:"sentinel" yaml:"sentinel"`                                     // Placeholder for unsupported slots
	Separator        string   `mapstructure:"separator" toml:"separator" json:"separator" yaml:"separator"`                                 // Joins initializer entries
	StrictRegions    bool     `mapstructure:"strict_regions" toml:"strict_regions" json:"strict_regions" yaml:"strict_regions"`             // Skip templates with an unterminated repeat region
	Requires         string   `mapstructure:"requires" toml:"requires" json:"requires" yaml:"requires"`                                     // Semver constraint on the dtypegen version
}

// BuildConfig configures output writing
type BuildConfig struct {
	MkdirParents bool `mapstructure:"mkdir_parents" toml:"mkdir_parents" json:"mkdir_parents" yaml:"mkdir_parents"` // Create every missing output directory
}

// LogConfig configures log output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // Color theme: everforest, gruvbox
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMS       int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`                                 // Quiet period before a run
	MaxRunsPerMinute int `mapstructure:"max_runs_per_minute" toml:"max_runs_per_minute" json:"max_runs_per_minute" yaml:"max_runs_per_minute"` // 0 = unlimited
}

// Debounce returns the debounce period as a duration
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generator: {Marker: %s, Datatypes: %v, Defaults: %v}, Build: {MkdirParents: %t}}",
		c.Generator.Marker, c.Generator.Datatypes, c.Generator.DefaultDatatypes, c.Build.MkdirParents)
}
