package build

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/dtypegen/logger"
)

// Skip records a template left out of a run.
type Skip struct {
	Source string
	Err    error
}

// Report summarizes one Run.
type Report struct {
	RunID     string
	Generated []Template
	UpToDate  []Template
	Skipped   []Skip
	Duration  time.Duration
}

// Wrote reports whether the run wrote any output.
func (r *Report) Wrote() bool {
	return len(r.Generated) > 0
}

// GeneratedPaths returns the output paths written, relative to the output root.
func (r *Report) GeneratedPaths() []string {
	out := make([]string, len(r.Generated))
	for i, t := range r.Generated {
		out[i] = t.OutputRel
	}
	return out
}

func (r *Report) skip(log *zap.SugaredLogger, source string, err error) {
	log.Errorw("Error processing template", logger.FieldFile, source, logger.FieldError, err)
	r.Skipped = append(r.Skipped, Skip{Source: source, Err: err})
}
