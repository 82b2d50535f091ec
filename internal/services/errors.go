package services

import "errors"

var (
	// ErrProvider marks embedding provider failures (timeout, bad status,
	// malformed payload). The engine recovers from it by falling back to
	// keyword search; it never reaches the caller.
	ErrProvider = errors.New("embedding provider error")

	// ErrValidation marks out-of-range search parameters. Rejected before
	// any search runs.
	ErrValidation = errors.New("invalid search parameters")

	// ErrDimension marks an attempt to compare vectors of different length.
	ErrDimension = errors.New("embedding dimension mismatch")
)
