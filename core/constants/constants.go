package constants

import "time"

// Database defaults
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

const DefaultRequestTimeout = 30 * time.Second

// Booking grid. Every booking boundary is aligned to this unit, anchored at
// the start of the service window it falls in.
const (
	GridUnit        = 15 * time.Minute
	GridUnitMinutes = 15
)

// Allocation defaults
const (
	DefaultLargeGroupThreshold = 10
	DefaultResultLimit         = 20
	DefaultWaitlistTTL         = 2 * time.Hour
	DefaultIdempotencyTTL      = 24 * time.Hour
)

// Candidate score weights. The score is informational output; ordering uses
// the explicit comparator in the allocation strategy.
const (
	ComboScoreBase   = 1000
	WasteScoreWeight = 10
	StartScoreCap    = 9
)

// Redis key prefixes
const (
	RedisKeyIdempotency = "booking:idem:"
)

// DefaultDurationForPartySize returns the seating duration applied when a
// request does not specify one.
func DefaultDurationForPartySize(partySize int) time.Duration {
	switch {
	case partySize <= 2:
		return 90 * time.Minute
	case partySize <= 6:
		return 105 * time.Minute
	default:
		return 120 * time.Minute
	}
}
