package dto

import "woki-api/modules/booking/entity"

// DiscoverRequest asks for ranked seating candidates. Duration of zero means
// "use the party-size default". WindowStart/WindowEnd are optional "HH:MM"
// strings in the venue's timezone and must be given together.
type DiscoverRequest struct {
	VenueID         string `json:"venue_id"`
	SectorID        string `json:"sector_id"`
	Date            string `json:"date"` // YYYY-MM-DD
	PartySize       int    `json:"party_size"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	WindowStart     string `json:"window_start,omitempty"`
	WindowEnd       string `json:"window_end,omitempty"`
	Limit           int    `json:"limit,omitempty"`
}

// BookRequest commits the best candidate for the given parameters. The
// idempotency key comes from the Idempotency-Key header, not the body.
type BookRequest struct {
	VenueID         string `json:"venue_id"`
	SectorID        string `json:"sector_id"`
	Date            string `json:"date"`
	PartySize       int    `json:"party_size"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	WindowStart     string `json:"window_start,omitempty"`
	WindowEnd       string `json:"window_end,omitempty"`
	IdempotencyKey  string `json:"-"`
}

type PaginatedBookings struct {
	Items      []entity.Booking `json:"items"`
	TotalItems int              `json:"total_items"`
	PageNumber int              `json:"page_number"`
	PageSize   int              `json:"page_size"`
}
