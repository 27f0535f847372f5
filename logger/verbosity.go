package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: processed files, skips and errors
	VerbosityDebug = 1 // -v: + up-to-date files, dropped tokens, directive details
	VerbosityTrace = 2 // -vv: + rendered initializer tables
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none)  -> InfoLevel
//	1+ (-v)   -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity >= VerbosityDebug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// OutputCategory is a category of CLI output gated by verbosity rather than severity.
type OutputCategory int

const (
	OutputResults    OutputCategory = iota // Run summary
	OutputErrors                           // Errors and skipped templates
	OutputUpToDate                         // Templates that needed no work
	OutputDirectives                       // Parsed directive details
	OutputDiffs                            // Line diffs of out-of-date outputs
	OutputDataDump                         // Rendered initializer tables
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUpToDate:   VerbosityDebug,
	OutputDirectives: VerbosityDebug,
	OutputDiffs:      VerbosityDebug,
	OutputDataDump:   VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityDebug:
		return "Debug (-v)"
	case VerbosityTrace:
		return "Trace (-vv)"
	default:
		if verbosity > VerbosityTrace {
			return "Trace (-vv+)"
		}
		return "Unknown"
	}
}
