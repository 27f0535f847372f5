package config

import (
	"go.uber.org/zap"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/dtype"
	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/generator"
	"github.com/teranos/dtypegen/initializer"
)

// Registry builds the datatype registry described by generator.datatypes
// and generator.default_datatypes
func (c *Config) Registry() (*dtype.Registry, error) {
	reg, err := dtype.NewRegistry(c.Generator.Datatypes, c.Generator.DefaultDatatypes)
	if err != nil {
		return nil, errors.WrapInvalidConfig(err, "generator.datatypes")
	}
	return reg, nil
}

// Synthesizer builds the initializer synthesizer for reg
func (c *Config) Synthesizer(reg *dtype.Registry) (*initializer.Synthesizer, error) {
	synth, err := initializer.New(reg,
		initializer.WithOperations(c.Generator.Operations...),
		initializer.WithSentinel(c.Generator.Sentinel),
		initializer.WithSeparator(c.Generator.Separator),
	)
	if err != nil {
		return nil, errors.WrapInvalidConfig(err, "generator.operations")
	}
	return synth, nil
}

// NewGenerator assembles the template pipeline
func (c *Config) NewGenerator(verbosity int, log *zap.SugaredLogger) (*generator.Generator, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	synth, err := c.Synthesizer(reg)
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{
		generator.WithStrictRegions(c.Generator.StrictRegions),
		generator.WithVerbosity(verbosity),
	}
	if log != nil {
		opts = append(opts, generator.WithLogger(log))
	}
	return generator.New(reg, synth, opts...), nil
}

// BuildOptions returns driver options for one invocation
func (c *Config) BuildOptions(inputRoot, outputRoot string, force bool) build.Options {
	return build.Options{
		InputRoot:    inputRoot,
		OutputRoot:   outputRoot,
		Marker:       c.Generator.Marker,
		MkdirParents: c.Build.MkdirParents,
		Force:        force,
	}
}

// WatchOptions returns watcher options; the caller supplies OnRun
func (c *Config) WatchOptions() build.WatchOptions {
	return build.WatchOptions{
		Debounce:         c.Watch.Debounce(),
		MaxRunsPerMinute: c.Watch.MaxRunsPerMinute,
	}
}
