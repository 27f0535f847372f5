// Package build discovers templates under an input tree and regenerates their
// outputs under a mirrored output tree when the template is newer.
//
// A run is strictly sequential: one file is read, transformed and written
// before the next is considered. Output timestamps are the only build state.
package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/generator"
	"github.com/teranos/dtypegen/logger"
)

// Permissions for generated files and directories
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Options configures a Driver.
type Options struct {
	InputRoot  string
	OutputRoot string
	// Marker is the template filename infix (default "dtype")
	Marker string
	// MkdirParents creates every missing output directory instead of one level
	MkdirParents bool
	// Force regenerates every template regardless of timestamps
	Force bool
}

// Driver runs discovery and conditional regeneration.
type Driver struct {
	opts Options
	gen  generator.Transformer
	log  *zap.SugaredLogger
}

// NewDriver creates a Driver. A nil logger uses the "build" component logger.
func NewDriver(opts Options, gen generator.Transformer, log *zap.SugaredLogger) *Driver {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if log == nil {
		log = logger.ComponentLogger("build")
	}
	return &Driver{opts: opts, gen: gen, log: log}
}

// Options returns the driver's options.
func (d *Driver) Options() Options {
	return d.opts
}

// Transformer returns the pipeline the driver runs templates through.
func (d *Driver) Transformer() generator.Transformer {
	return d.gen
}

// Discover walks the input root in lexical order and returns template paths.
func (d *Driver) Discover() ([]string, error) {
	var sources []string
	err := filepath.WalkDir(d.opts.InputRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && IsTemplate(entry.Name(), d.opts.Marker) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk input directory %s", d.opts.InputRoot)
	}
	return sources, nil
}

// Resolve maps a discovered source path to its Template.
func (d *Driver) Resolve(source string) (Template, error) {
	rel, err := filepath.Rel(d.opts.InputRoot, source)
	if err != nil {
		return Template{}, errors.Wrapf(errors.ErrUnmatchedTemplatePath, "%s: %v", source, err)
	}
	outRel, err := DeriveOutputPath(rel, d.opts.Marker)
	if err != nil {
		return Template{}, err
	}
	return Template{
		Source:    source,
		Rel:       rel,
		OutputRel: outRel,
		Output:    filepath.Join(d.opts.OutputRoot, outRel),
	}, nil
}

// NeedsRegeneration reports whether the output is missing or strictly older
// than its template.
func (d *Driver) NeedsRegeneration(t Template) (bool, error) {
	if d.opts.Force {
		return true, nil
	}

	src, err := os.Stat(t.Source)
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat template %s", t.Source)
	}
	out, err := os.Stat(t.Output)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat output %s", t.Output)
	}
	return src.ModTime().After(out.ModTime()), nil
}

// Run regenerates every stale template. Per-template problems are logged and
// recorded as skips; I/O failures end the run and are returned along with the
// partial report.
func (d *Driver) Run() (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	defer func() { report.Duration = time.Since(start) }()
	log := logger.ChildLogger(d.log, logger.FieldRunID, report.RunID)

	sources, err := d.Discover()
	if err != nil {
		return report, err
	}

	for _, source := range sources {
		t, err := d.Resolve(source)
		if err != nil {
			report.skip(log, source, err)
			continue
		}

		stale, err := d.NeedsRegeneration(t)
		if err != nil {
			return report, err
		}
		if !stale {
			log.Debugw("Up to date", logger.FieldFile, t.OutputRel)
			report.UpToDate = append(report.UpToDate, t)
			continue
		}

		log.Infow("Processing", logger.FieldFile, t.OutputRel)
		if err := d.Generate(t); err != nil {
			if errors.IsSkippable(err) {
				report.skip(log, source, err)
				continue
			}
			return report, err
		}
		report.Generated = append(report.Generated, t)
	}

	log.Debugw("Run complete",
		logger.FieldGenerated, len(report.Generated),
		logger.FieldUpToDate, len(report.UpToDate),
		logger.FieldSkipped, len(report.Skipped),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return report, nil
}

// Generate transforms one template and overwrites its output in full.
func (d *Driver) Generate(t Template) error {
	res, err := d.transform(t)
	if err != nil {
		return err
	}
	if err := d.prepareDir(filepath.Dir(t.Output)); err != nil {
		return err
	}
	if err := os.WriteFile(t.Output, []byte(res.Output), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", t.Output)
	}
	return nil
}

func (d *Driver) transform(t Template) (*generator.Result, error) {
	data, err := os.ReadFile(t.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template %s", t.Source)
	}
	return d.gen.Transform(t.Rel, string(data))
}

// prepareDir creates a missing output directory. Only the last level is
// created unless MkdirParents is set; a deeper gap is an I/O error.
func (d *Driver) prepareDir(dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	if d.opts.MkdirParents {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create output directory %s", dir)
		}
		return nil
	}
	if err := os.Mkdir(dir, DefaultDirPermissions); err != nil && !os.IsExist(err) {
		return errors.WithHint(
			errors.Wrapf(err, "failed to create output directory %s", dir),
			"set build.mkdir_parents = true to create nested output directories")
	}
	return nil
}
