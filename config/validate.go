package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/logger"
	"github.com/teranos/dtypegen/version"
)

// markerReserved are characters that would break the template glob or path split
const markerReserved = `*?[]\/.`

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	return c.validateAgainst(version.Version)
}

func (c *Config) validateAgainst(current string) error {
	if err := validateMarker(c.Generator.Marker); err != nil {
		return err
	}

	// Registry and synthesizer carry their own rules for datatype and operation lists
	reg, err := c.Registry()
	if err != nil {
		return err
	}
	if _, err := c.Synthesizer(reg); err != nil {
		return err
	}

	if c.Log.Theme != "" && !logger.HasTheme(c.Log.Theme) {
		return errors.Mark(errors.Newf("log.theme %q is unknown (everforest, gruvbox)", c.Log.Theme), errors.ErrInvalidConfig)
	}
	if c.Watch.DebounceMS < 0 {
		return errors.Mark(errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS), errors.ErrInvalidConfig)
	}
	if c.Watch.MaxRunsPerMinute < 0 {
		return errors.Mark(errors.Newf("watch.max_runs_per_minute must be >= 0, got %d (0 = unlimited)", c.Watch.MaxRunsPerMinute), errors.ErrInvalidConfig)
	}

	return checkRequires(c.Generator.Requires, current)
}

func validateMarker(marker string) error {
	if marker == "" {
		return errors.Mark(errors.New("generator.marker cannot be empty"), errors.ErrInvalidConfig)
	}
	if strings.ContainsAny(marker, markerReserved) || strings.ContainsAny(marker, " \t\n") {
		return errors.Mark(errors.Newf("generator.marker %q may not contain whitespace or any of %s", marker, markerReserved), errors.ErrInvalidConfig)
	}
	return nil
}

// checkRequires enforces generator.requires against the running version.
// Development builds satisfy every constraint.
func checkRequires(constraint, current string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.WrapInvalidConfig(err, "generator.requires is not a valid version constraint")
	}
	if current == "" || current == "dev" {
		return nil
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return errors.WrapInvalidConfig(err, "dtypegen version "+current+" is not semantic")
	}
	if !c.Check(v) {
		return errors.WithHint(
			errors.Mark(errors.Newf("dtypegen %s does not satisfy generator.requires %q", v, constraint), errors.ErrInvalidConfig),
			"install a matching dtypegen release or relax generator.requires")
	}
	return nil
}

// UnknownKeys returns the dotted keys of a TOML file that dtypegen does not read.
// Viper ignores them silently; config validate reports them.
func UnknownKeys(path string) ([]string, error) {
	var shape Config
	md, err := toml.DecodeFile(path, &shape)
	if err != nil {
		return nil, errors.WrapInvalidConfig(err, "failed to parse "+path)
	}

	var keys []string
	for _, k := range md.Undecoded() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys, nil
}
