package domain

import "errors"

var (
	// ErrInvalidInput indicates malformed price data (too few points,
	// non-positive prices, non-finite values, out-of-order timestamps).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData indicates a series too short for the requested
	// operation, e.g. a split whose test partition would be empty.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrConvergence indicates a model's estimation procedure failed to
	// converge.
	ErrConvergence = errors.New("estimation did not converge")

	// ErrInvalidHorizon indicates a non-positive forecast horizon.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")

	// ErrAlignment indicates a forecast/test length or timestamp mismatch,
	// including an ensemble asked to average fewer inputs than expected.
	ErrAlignment = errors.New("series misaligned")
)
