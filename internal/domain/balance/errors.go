package balance

import "errors"

// Sentinel kinds for optimizer errors.
var (
	ErrUnknownMode = errors.New("unknown swap mode")
)
