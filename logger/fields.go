package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	FieldRunID = "run_id"

	// Files and paths
	FieldFile   = "file"
	FieldOutput = "output"
	FieldInput  = "input"
	FieldLine   = "line"

	// Template details
	FieldDatatypes   = "datatypes"
	FieldDropped     = "dropped"
	FieldInitializer = "initializer"
	FieldRegions     = "regions"
	FieldCopies      = "copies"

	// Counts and timing
	FieldCount      = "count"
	FieldGenerated  = "generated"
	FieldUpToDate   = "up_to_date"
	FieldSkipped    = "skipped"
	FieldDurationMS = "duration_ms"

	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	d := &Driver{log: logger.ComponentLogger("build")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(base, logger.FieldRunID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
