// Package errkind defines the error kinds shared by the phantom analysis packages.
//
// Packages return these sentinels wrapped with context (github.com/pkg/errors),
// so callers should match them with errors.Is rather than by comparing messages.
package errkind

import "errors"

var (
	// ErrLookup is returned when a requested (mechanism, field strength)
	// combination or a calibration sheet/column is not available.
	ErrLookup = errors.New("lookup error")

	// ErrDegenerateConic is returned when fitted conic coefficients do not
	// describe a real, non-degenerate ellipse.
	ErrDegenerateConic = errors.New("degenerate conic")

	// ErrInvalidArgument is returned for malformed inputs: unknown axis names,
	// too few points, mismatched array lengths, bad shapes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericalFailure is returned when a linear algebra routine does not
	// converge or a matrix that must be inverted is singular.
	ErrNumericalFailure = errors.New("numerical failure")
)
