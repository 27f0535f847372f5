package build

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/logger"
)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce is how long the tree must be quiet before a run starts
	Debounce time.Duration
	// MaxRunsPerMinute caps run frequency; 0 disables the cap
	MaxRunsPerMinute int
	// OnRun is called after every run, including the initial one
	OnRun func(*Report, error)
}

// Watcher re-runs a Driver when templates under its input root change.
// Events only schedule runs; runs execute one at a time on the watch loop.
type Watcher struct {
	driver  *Driver
	opts    WatchOptions
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// NewWatcher creates a Watcher over the driver's input tree.
func NewWatcher(d *Driver, opts WatchOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	w := &Watcher{
		driver: d,
		opts:   opts,
		fsw:    fsw,
		log:    logger.ComponentLogger("watch"),
	}
	if opts.MaxRunsPerMinute > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(float64(opts.MaxRunsPerMinute)/60.0), 1)
	}

	if err := w.addTree(d.opts.InputRoot); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run performs an initial run, then loops until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	w.runOnce(ctx)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.opts.Debounce)
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-timerC:
			timerC = nil
			w.runOnce(ctx)
		}
	}
}

// relevant filters events down to template changes and new directories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warnw("Failed to watch new directory", logger.FieldFile, event.Name, logger.FieldError, err)
			}
			return true
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	return IsTemplate(filepath.Base(event.Name), w.driver.opts.Marker)
}

func (w *Watcher) runOnce(ctx context.Context) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
	}
	report, err := w.driver.Run()
	if err != nil {
		w.log.Errorw("Run failed", logger.FieldError, err)
	}
	if w.opts.OnRun != nil {
		w.opts.OnRun(report, err)
	}
}
