package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/dtype"
	"github.com/teranos/dtypegen/initializer"
)

// Default values for settings without a built-in home in another package
const (
	DefaultLogTheme         = "everforest"
	DefaultDebounceMS       = 300
	DefaultMaxRunsPerMinute = 60
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generator defaults
	v.SetDefault("generator.marker", build.DefaultMarker)
	v.SetDefault("generator.datatypes", dtype.CanonicalDatatypes)
	v.SetDefault("generator.default_datatypes", dtype.DefaultDatatypes)
	v.SetDefault("generator.operations", initializer.DefaultOperations)
	v.SetDefault("generator.sentinel", initializer.DefaultSentinel)
	v.SetDefault("generator.separator", initializer.DefaultSeparator)
	v.SetDefault("generator.strict_regions", false)
	v.SetDefault("generator.requires", "")

	// Build defaults
	v.SetDefault("build.mkdir_parents", false)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)

	// Watch defaults
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
	v.SetDefault("watch.max_runs_per_minute", DefaultMaxRunsPerMinute)
}

// Default returns the configuration produced by defaults alone
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}
