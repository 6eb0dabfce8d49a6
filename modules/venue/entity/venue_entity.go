package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceWindow is a recurring local time-of-day interval [Start, End) during
// which the venue seats parties. Values are "HH:MM" strings in the venue's
// timezone.
type ServiceWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Resolve converts the window to absolute instants on the given local day.
func (w ServiceWindow) Resolve(day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := resolveClock(w.Start, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := resolveClock(w.End, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("service window end %q not after start %q", w.End, w.Start)
	}
	return start, end, nil
}

func resolveClock(clock string, day time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// ServiceWindows is stored as a JSONB column.
type ServiceWindows []ServiceWindow

func (s ServiceWindows) Value() (driver.Value, error) {
	if s == nil {
		s = ServiceWindows{}
	}
	return json.Marshal(s)
}

func (s *ServiceWindows) Scan(src any) error {
	if src == nil {
		*s = ServiceWindows{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported service_windows type %T", src)
	}
}

// Venue is read-only to the allocation core; an operator surface creates it.
// No service windows means the venue is open the whole day.
type Venue struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Slug           string         `db:"slug" json:"slug"`
	Timezone       string         `db:"timezone" json:"timezone"`
	ServiceWindows ServiceWindows `db:"service_windows" json:"service_windows"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Location resolves the venue's IANA timezone.
func (v *Venue) Location() (*time.Location, error) {
	return time.LoadLocation(v.Timezone)
}

// Sector groups tables inside a venue.
type Sector struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VenueID   uuid.UUID `db:"venue_id" json:"venue_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Table is a physical seating unit with an inclusive capacity range.
type Table struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SectorID  uuid.UUID `db:"sector_id" json:"sector_id"`
	Name      string    `db:"name" json:"name"`
	MinSize   int       `db:"min_size" json:"min_size"`
	MaxSize   int       `db:"max_size" json:"max_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Fits reports whether the table alone can seat the party.
func (t Table) Fits(partySize int) bool {
	return partySize >= t.MinSize && partySize <= t.MaxSize
}

// Blackout makes a table unavailable for [StartsAt, EndsAt) regardless of
// booking state.
type Blackout struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TableID   uuid.UUID `db:"table_id" json:"table_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
