// Package generator turns one template document into its datatype-specialized
// output: directives are parsed, the initializer directive is rewritten, and
// repeat regions are expanded.
package generator

import (
	"go.uber.org/zap"

	"github.com/teranos/dtypegen/directive"
	"github.com/teranos/dtypegen/dtype"
	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/expand"
	"github.com/teranos/dtypegen/initializer"
	"github.com/teranos/dtypegen/logger"
)

// Transformer produces output text from template text.
// The build driver depends on this rather than on *Generator.
type Transformer interface {
	Transform(name, text string) (*Result, error)
}

// Generator runs the template pipeline with a fixed registry and table layout.
type Generator struct {
	registry      *dtype.Registry
	synth         *initializer.Synthesizer
	strictRegions bool
	verbosity     int
	log           *zap.SugaredLogger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithStrictRegions makes an unterminated repeat region an error instead of
// silently dropping its lines.
func WithStrictRegions(strict bool) Option {
	return func(g *Generator) { g.strictRegions = strict }
}

// WithVerbosity enables data dumps at logger.VerbosityTrace.
func WithVerbosity(v int) Option {
	return func(g *Generator) { g.verbosity = v }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a Generator.
func New(reg *dtype.Registry, synth *initializer.Synthesizer, opts ...Option) *Generator {
	g := &Generator{
		registry: reg,
		synth:    synth,
		log:      logger.ComponentLogger("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the registry the generator resolves selections against.
func (g *Generator) Registry() *dtype.Registry {
	return g.registry
}

// Transform expands text. name identifies the template in logs and errors.
// The only error is ErrUnterminatedRegion in strict mode.
func (g *Generator) Transform(name, text string) (*Result, error) {
	res := &Result{Name: name}
	res.Directives = directive.Parse(text, g.registry)
	g.logDirectives(name, res.Directives)

	body := text
	if res.Directives.HasInitializer {
		m := g.synth.Synthesize(res.Directives.Initializer, res.Directives.Selection)
		res.Matrix = &m
		rendered := m.Render()
		body = initializer.Rewrite(body, rendered)

		if logger.ShouldOutput(g.verbosity, logger.OutputDataDump) {
			g.log.Debugw("Initializer table",
				logger.FieldFile, name,
				logger.FieldInitializer, res.Directives.Initializer,
				"entries", m.Entries())
		}
	}

	res.Expansion = expand.Expand(body, res.Directives.Selection)
	res.Output = res.Expansion.Text
	g.log.Debugw("Expanded repeat regions",
		logger.FieldFile, name,
		logger.FieldRegions, res.Expansion.Regions,
		logger.FieldCopies, res.Expansion.Copies)

	if res.Expansion.Unterminated {
		if g.strictRegions {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrUnterminatedRegion, "%s: region opened on line %d", name, res.Expansion.StartLine),
				"close the region with a '// End repeat' comment line")
		}
		g.log.Warnw("Unterminated repeat region, its lines are dropped",
			logger.FieldFile, name,
			logger.FieldLine, res.Expansion.StartLine,
			logger.FieldCount, res.Expansion.DroppedLines)
	}

	return res, nil
}

func (g *Generator) logDirectives(name string, d directive.Directives) {
	if len(d.Dropped) > 0 {
		g.log.Debugw("Ignoring non-canonical datatypes",
			logger.FieldFile, name,
			logger.FieldDropped, d.Dropped)
	}
	if !logger.ShouldOutput(g.verbosity, logger.OutputDirectives) {
		return
	}
	g.log.Debugw("Parsed directives",
		logger.FieldFile, name,
		logger.FieldDatatypes, d.Selection.Strings(),
		"declared", d.Declared,
		logger.FieldInitializer, d.Initializer)
}
