package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type runResult struct {
	report *Report
	err    error
}

func startWatcher(t *testing.T, f *fixture) (chan runResult, context.CancelFunc, chan error) {
	t.Helper()
	runs := make(chan runResult, 16)
	w, err := NewWatcher(f.driver(t, Options{}), WatchOptions{
		Debounce: 20 * time.Millisecond,
		OnRun: func(r *Report, err error) {
			runs <- runResult{r, err}
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return runs, cancel, done
}

func waitRun(t *testing.T, runs chan runResult) runResult {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a run")
		return runResult{}
	}
}

func TestWatcherInitialRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	f := newFixture(t)
	f.write(t, "a.dtype.c", sigbitsTemplate)

	runs, cancel, done := startWatcher(t, f)
	defer cancel()

	r := waitRun(t, runs)
	require.NoError(t, r.err)
	assert.Equal(t, []string{"a.c"}, r.report.GeneratedPaths())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherRegeneratesOnChange(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.dtype.c", sigbitsTemplate)

	runs, cancel, _ := startWatcher(t, f)
	defer cancel()
	waitRun(t, runs)

	f.write(t, "b.dtype.h", quantizerTemplate)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-runs:
			require.NoError(t, r.err)
			if _, err := os.Stat(filepath.Join(f.out, "b.h")); err == nil {
				assert.Contains(t, r.report.GeneratedPaths(), "b.h")
				return
			}
		case <-deadline:
			t.Fatal("b.h was not generated")
		}
	}
}

func TestWatcherRelevant(t *testing.T) {
	f := newFixture(t)
	w, err := NewWatcher(f.driver(t, Options{}), WatchOptions{})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 300*time.Millisecond, w.opts.Debounce)
	assert.Nil(t, w.limiter)

	tpl := filepath.Join(f.in, "a.dtype.c")
	assert.True(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(f.in, "a.c"), Op: fsnotify.Write}))

	sub := filepath.Join(f.in, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	assert.True(t, w.relevant(fsnotify.Event{Name: sub, Op: fsnotify.Create}))
	assert.Contains(t, w.fsw.WatchList(), sub)
}

func TestWatcherRateLimit(t *testing.T) {
	f := newFixture(t)
	w, err := NewWatcher(f.driver(t, Options{}), WatchOptions{MaxRunsPerMinute: 60})
	require.NoError(t, err)
	defer w.Close()

	require.NotNil(t, w.limiter)
	assert.InDelta(t, 1.0, float64(w.limiter.Limit()), 1e-9)
	assert.Equal(t, 1, w.limiter.Burst())
}
