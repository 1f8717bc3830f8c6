// Package errors re-exports github.com/cockroachdb/errors for cs2cpp.
//
// Usage:
//
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "load %s", path)
//	}
//
//	return errors.WithHint(err, "run the front-end exporter first")
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
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
	Mark         = crdb.Mark
)

// Sentinels shared across the pipeline. Wrap them to add context and test
// with Is.
var (
	// ErrUnsupported marks a construct the generator cannot lower. It aborts
	// the run.
	ErrUnsupported = New("unsupported construct")

	// ErrErrorsReported is returned at a phase boundary when counted
	// diagnostics were reported during the phase.
	ErrErrorsReported = New("errors reported")

	// ErrInvalidOptions indicates a rejected combination of build options.
	ErrInvalidOptions = New("invalid options")
)
