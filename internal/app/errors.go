package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidRequest = errors.New("invalid plan request")
	ErrRosterTooLarge = errors.New("roster too large")
	ErrBackpressure   = errors.New("planning queue unavailable")
)
