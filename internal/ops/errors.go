// Package ops implements the columnar operators (C4): select, fetch,
// elementwise arithmetic, aggregates, and formatted print.
package ops

import "errors"

var (
	// ErrSizeMismatch is returned by arithmetic when its two operands have
	// different tuple counts (spec §4.4).
	ErrSizeMismatch = errors.New("ops: operand tuple counts differ")

	// ErrEmptyInput is returned by AVG/MIN/MAX over a zero-length input
	// (spec §4.4).
	ErrEmptyInput = errors.New("ops: aggregate over empty input")

	// ErrPrintShape is returned by Print when its inputs do not share a
	// common tuple count (spec §4.4, testable property §8.7).
	ErrPrintShape = errors.New("ops: print inputs have differing tuple counts")
)
