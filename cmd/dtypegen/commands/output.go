package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/logger"
)

// printReport writes a human summary of a run. JSON log mode prints nothing;
// the structured logs already carry the same information.
func printReport(w io.Writer, r *build.Report, verbosity int) {
	if logger.JSONOutput {
		return
	}

	for _, t := range r.Generated {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.LightGreen("✓ Generated:"), pterm.White(t.OutputRel)))
	}
	if logger.ShouldOutput(verbosity, logger.OutputUpToDate) {
		for _, t := range r.UpToDate {
			pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Gray("· Up to date:"), pterm.Gray(t.OutputRel)))
		}
	}
	for _, s := range r.Skipped {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s %s", pterm.Yellow("⚠ Skipped:"), s.Source, pterm.Gray("("+s.Err.Error()+")")))
	}

	pterm.Fprintln(w, fmt.Sprintf("%s generated, %s up to date, %s skipped in %s",
		pterm.Green(fmt.Sprintf("%d", len(r.Generated))),
		pterm.LightCyan(fmt.Sprintf("%d", len(r.UpToDate))),
		pterm.Yellow(fmt.Sprintf("%d", len(r.Skipped))),
		r.Duration.Round(time.Millisecond)))
}

// printCheck writes the outputs a check found stale
func printCheck(w io.Writer, res *build.CheckResult, verbosity int) {
	if logger.JSONOutput {
		return
	}

	for _, rel := range res.Missing {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Red("✗ Missing:"), rel))
	}
	for _, rel := range res.Differences {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Red("✗ Differs:"), rel))
		if logger.ShouldOutput(verbosity, logger.OutputDiffs) {
			pterm.Fprintln(w, pterm.Gray("    -existing +generated"))
			pterm.Fprintln(w, res.Diffs[rel])
		}
	}
	for _, s := range res.Skipped {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s %s", pterm.Yellow("⚠ Skipped:"), s.Source, pterm.Gray("("+s.Err.Error()+")")))
	}
	if res.UpToDate {
		pterm.Fprintln(w, pterm.Green("✓ Generated files are up to date"))
	}
}
