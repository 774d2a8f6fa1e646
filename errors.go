package goresidue

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers test them with errors.Is.
var (
	// ErrParse reports function text that is not a valid expression.
	ErrParse = errors.New("goresidue: invalid function")

	// ErrContourParameter reports contour numbers that cannot be read.
	ErrContourParameter = errors.New("goresidue: invalid contour parameters")

	// ErrSingularityComputation reports that singularities or residues could
	// not be computed; the analysis continues with no poles.
	ErrSingularityComputation = errors.New("goresidue: singularity computation failed")

	// ErrUnsupported reports a function form the engine cannot decompose
	// (branch points, transcendental denominators).
	ErrUnsupported = errors.New("goresidue: unsupported form")

	// ErrNoClosedForm reports polynomial roots without an exact expression.
	ErrNoClosedForm = errors.New("goresidue: no closed form")

	// ErrNotInvertible reports a division the exact arithmetic cannot perform.
	ErrNotInvertible = errors.New("goresidue: not invertible")
)

// ParseError locates a rejected function text.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ContourParameterError names the contour field that failed to parse.
type ContourParameterError struct {
	Field string
	Value string
	Err   error
}

func (e *ContourParameterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("contour %s %q is not valid", e.Field, e.Value)
	}
	return fmt.Sprintf("contour %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ContourParameterError) Unwrap() error { return e.Err }

func (e *ContourParameterError) Is(target error) bool { return target == ErrContourParameter }
