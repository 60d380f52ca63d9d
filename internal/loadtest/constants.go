package loadtest

import "time"

// Defaults.
const (
	defaultRosters          = 200
	defaultRosterSize       = 23
	defaultGroupSize        = 5
	defaultInactivePct      = 10
	defaultWorkerMultiplier = 2
	defaultTimeout          = 10 * time.Second
	defaultPollInterval     = 50 * time.Millisecond
	defaultPollTimeout      = 30 * time.Second
)

// Rating scale of generated attributes.
const (
	minRating = 1.0
	maxRating = 10.0
)

// percentageMultiplier converts ratios to percentages.
const percentageMultiplier = 100

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)
