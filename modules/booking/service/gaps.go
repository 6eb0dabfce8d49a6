package service

import (
	"sort"

	"woki-api/modules/booking/entity"
	venueentity "woki-api/modules/venue/entity"
)

// FreeGapsInWindow turns a table's committed bookings into the free intervals
// inside a single service window. Bookings that do not overlap the window are
// ignored; overlapping bookings are absorbed by a free-from watermark that
// only ever advances, so stacked or nested intervals cannot reopen time that
// an earlier booking already consumed.
func FreeGapsInWindow(window entity.Gap, bookings []entity.Booking) []entity.Gap {
	if window.IsEmpty() {
		return nil
	}

	relevant := make([]entity.Booking, 0, len(bookings))
	for _, b := range bookings {
		if (entity.Gap{Start: b.StartsAt, End: b.EndsAt}).Overlaps(window) {
			relevant = append(relevant, b)
		}
	}
	sort.Slice(relevant, func(i, j int) bool {
		if !relevant[i].StartsAt.Equal(relevant[j].StartsAt) {
			return relevant[i].StartsAt.Before(relevant[j].StartsAt)
		}
		return relevant[i].EndsAt.Before(relevant[j].EndsAt)
	})

	var gaps []entity.Gap
	freeFrom := window.Start
	for _, b := range relevant {
		if freeFrom.Before(b.StartsAt) {
			gaps = append(gaps, entity.Gap{Start: freeFrom, End: b.StartsAt})
		}
		if b.EndsAt.After(freeFrom) {
			freeFrom = b.EndsAt
		}
	}
	if freeFrom.Before(window.End) {
		gaps = append(gaps, entity.Gap{Start: freeFrom, End: window.End})
	}
	return gaps
}

// SubtractBlackouts splits each gap around the blackout intervals that
// overlap it, keeping only the sub-intervals outside every blackout.
func SubtractBlackouts(gaps []entity.Gap, blackouts []venueentity.Blackout) []entity.Gap {
	if len(blackouts) == 0 {
		return gaps
	}

	var result []entity.Gap
	for _, gap := range gaps {
		overlapping := make([]venueentity.Blackout, 0, len(blackouts))
		for _, b := range blackouts {
			if gap.Overlaps(entity.Gap{Start: b.StartsAt, End: b.EndsAt}) {
				overlapping = append(overlapping, b)
			}
		}
		if len(overlapping) == 0 {
			result = append(result, gap)
			continue
		}
		sort.Slice(overlapping, func(i, j int) bool {
			return overlapping[i].StartsAt.Before(overlapping[j].StartsAt)
		})

		cursor := gap.Start
		for _, b := range overlapping {
			if cursor.Before(b.StartsAt) {
				result = append(result, entity.Gap{Start: cursor, End: b.StartsAt})
			}
			if b.EndsAt.After(cursor) {
				cursor = b.EndsAt
			}
		}
		if cursor.Before(gap.End) {
			result = append(result, entity.Gap{Start: cursor, End: gap.End})
		}
	}
	return result
}
