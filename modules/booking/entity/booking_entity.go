package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking occupies one or more tables for the half-open interval
// [StartsAt, EndsAt). TableIDs is empty only for waitlist placeholder
// bookings, which hold no resources.
type Booking struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	VenueID   uuid.UUID      `db:"venue_id" json:"venue_id"`
	SectorID  uuid.UUID      `db:"sector_id" json:"sector_id"`
	TableIDs  pq.StringArray `db:"table_ids" json:"table_ids"`
	PartySize int            `db:"party_size" json:"party_size"`
	StartsAt  time.Time      `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time      `db:"ends_at" json:"ends_at"`
	Status    BookingStatus  `db:"status" json:"status"`
	Reference string         `db:"reference" json:"reference"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// UsesTable reports whether the booking occupies the given table.
func (b *Booking) UsesTable(tableID string) bool {
	for _, id := range b.TableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}

// WaitlistEntry freezes a booking request that found no capacity, so it can
// be replayed verbatim when a resource frees up. PlaceholderBookingID points
// at the PENDING no-table booking returned to the caller; the placeholder is
// removed together with the entry on promotion or expiry.
type WaitlistEntry struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	VenueID              uuid.UUID `db:"venue_id" json:"venue_id"`
	SectorID             uuid.UUID `db:"sector_id" json:"sector_id"`
	PlaceholderBookingID uuid.UUID `db:"placeholder_booking_id" json:"placeholder_booking_id"`
	PartySize            int       `db:"party_size" json:"party_size"`
	DurationMinutes      int       `db:"duration_minutes" json:"duration_minutes"`
	Date                 string    `db:"date" json:"date"`
	WindowStart          *string   `db:"window_start" json:"window_start,omitempty"`
	WindowEnd            *string   `db:"window_end" json:"window_end,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	ExpiresAt            time.Time `db:"expires_at" json:"expires_at"`
}

// Gap is a half-open interval [Start, End) where a resource, or every
// resource in a set, is free.
type Gap struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsEmpty reports whether the gap covers no time at all. An empty interval
// never overlaps anything and blocks nothing.
func (g Gap) IsEmpty() bool {
	return !g.End.After(g.Start)
}

// Overlaps implements the half-open overlap test: [a,b) and [c,d) overlap
// iff a < d && b > c. Touching intervals do not overlap.
func (g Gap) Overlaps(other Gap) bool {
	if g.IsEmpty() || other.IsEmpty() {
		return false
	}
	return g.Start.Before(other.End) && g.End.After(other.Start)
}

// Intersect returns the common sub-interval, which may be empty.
func (g Gap) Intersect(other Gap) Gap {
	start := g.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := g.End
	if other.End.Before(end) {
		end = other.End
	}
	return Gap{Start: start, End: end}
}

func (g Gap) Duration() time.Duration {
	return g.End.Sub(g.Start)
}

type CandidateKind string

const (
	CandidateSingle CandidateKind = "single"
	CandidateCombo  CandidateKind = "combo"
)

// Candidate is a proposed seating: a resource set and an interval that can
// host the party. Score is informational output for callers; the allocation
// strategy orders candidates with an explicit comparator instead.
type Candidate struct {
	Kind        CandidateKind `json:"kind"`
	TableIDs    []string      `json:"table_ids"` // sorted
	StartsAt    time.Time     `json:"starts_at"`
	EndsAt      time.Time     `json:"ends_at"`
	MinCapacity int           `json:"min_capacity"`
	MaxCapacity int           `json:"max_capacity"`
	Score       int           `json:"score"`
	Rationale   string        `json:"rationale"`
}
