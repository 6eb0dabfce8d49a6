package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingStatus    = "booking.status_changed"
	TypeWaitlistPromoted = "waitlist.promoted"
)

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VenueID   uuid.UUID `db:"venue_id" json:"venue_id"`
	SectorID  uuid.UUID `db:"sector_id" json:"sector_id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
