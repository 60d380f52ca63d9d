package planner

import "errors"

var (
	// ErrInvalidGroupSize is returned when the group size is below one.
	ErrInvalidGroupSize = errors.New("invalid group size")
	// ErrCancelled is returned when the context ends before planning finishes.
	ErrCancelled = errors.New("planning cancelled")
)
