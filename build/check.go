package build

import (
	"bytes"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/teranos/dtypegen/errors"
)

// CheckResult holds the result of comparing generated text with existing outputs.
type CheckResult struct {
	UpToDate bool
	// Missing lists outputs that do not exist yet (relative to the output root)
	Missing []string
	// Differences lists outputs whose content differs from a fresh generation
	Differences []string
	// Diffs maps each entry of Differences to a line diff (-existing +generated)
	Diffs   map[string]string
	Skipped []Skip
}

// Check transforms every template in memory and compares the text with the
// existing outputs. It never writes and ignores timestamps.
func (d *Driver) Check() (*CheckResult, error) {
	sources, err := d.Discover()
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Diffs: map[string]string{}}
	for _, source := range sources {
		t, err := d.Resolve(source)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Source: source, Err: err})
			continue
		}

		res, err := d.transform(t)
		if err != nil {
			if errors.IsSkippable(err) {
				result.Skipped = append(result.Skipped, Skip{Source: source, Err: err})
				continue
			}
			return nil, err
		}

		existing, err := os.ReadFile(t.Output)
		switch {
		case os.IsNotExist(err):
			result.Missing = append(result.Missing, t.OutputRel)
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read output %s", t.Output)
		case !bytes.Equal(existing, []byte(res.Output)):
			result.Differences = append(result.Differences, t.OutputRel)
			result.Diffs[t.OutputRel] = lineDiff(string(existing), res.Output)
		}
	}

	result.UpToDate = len(result.Missing) == 0 && len(result.Differences) == 0
	return result, nil
}

func lineDiff(existing, generated string) string {
	return cmp.Diff(strings.Split(existing, "\n"), strings.Split(generated, "\n"))
}
