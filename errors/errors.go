// Package errors provides error handling for dtypegen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for user-facing failures
//
// Usage:
//
//	if err := os.WriteFile(path, data, 0644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	return errors.WithHint(err, "run 'dtypegen <indir> <outdir>' to regenerate")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Mark tags err so that errors.Is(err, reference) holds without changing its message.
var Mark = crdb.Mark

// Sentinel errors shared across dtypegen.
// Use these with errors.Is() and wrap them with errors.Wrap() to add context.
var (
	// ErrUsage indicates the command line was incomplete
	ErrUsage = New("usage error")

	// ErrUnmatchedTemplatePath indicates a template path did not split into stem and suffix
	ErrUnmatchedTemplatePath = New("template path does not match marker pattern")

	// ErrUnterminatedRegion indicates a repeat region was opened but never closed
	ErrUnterminatedRegion = New("unterminated repeat region")

	// ErrInvalidConfig indicates the loaded configuration cannot be used
	ErrInvalidConfig = New("invalid configuration")

	// ErrOutOfDate indicates generated outputs do not match their templates
	ErrOutOfDate = New("generated files are out of date")
)

// IsUsageError checks if an error is or wraps ErrUsage
func IsUsageError(err error) bool {
	return err != nil && Is(err, ErrUsage)
}

// IsSkippable reports whether err only affects a single template.
// The build driver logs these and moves on to the next file.
func IsSkippable(err error) bool {
	return err != nil && IsAny(err, ErrUnmatchedTemplatePath, ErrUnterminatedRegion)
}

// WrapInvalidConfig wraps an error as an invalid-config error with context
func WrapInvalidConfig(err error, context string) error {
	return Wrap(Mark(err, ErrInvalidConfig), context)
}
