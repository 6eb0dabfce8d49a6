package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"woki-api/core/constants"
	"woki-api/modules/booking/entity"
	venueentity "woki-api/modules/venue/entity"
)

// WokiBrain is the allocation strategy: it composes the interval engine, the
// gap intersector and the combination generator into a deterministically
// ordered candidate list. It never errs on its own — an empty result means
// no feasible seating exists.
type WokiBrain struct {
	// GridUnit is the granularity every candidate boundary aligns to,
	// anchored at the start of the service window the slot falls in.
	GridUnit    time.Duration
	ResultLimit int
}

func NewWokiBrain() *WokiBrain {
	return &WokiBrain{
		GridUnit:    constants.GridUnit,
		ResultLimit: constants.DefaultResultLimit,
	}
}

// BrainInput carries everything the strategy needs, pre-fetched by the
// caller. Bookings must be CONFIRMED only; both maps are keyed by table id.
type BrainInput struct {
	Tables  []venueentity.Table
	Windows []entity.Gap
	// Requested restricts results to a sub-window. No intersection with the
	// service windows yields an empty result.
	Requested        *entity.Gap
	PartySize        int
	Duration         time.Duration
	Limit            int
	BookingsByTable  map[string][]entity.Booking
	BlackoutsByTable map[string][]venueentity.Blackout
}

type windowSpan struct {
	span entity.Gap
	// anchor is the original window start; grid alignment stays anchored
	// there even when the span was clipped by the requested window.
	anchor time.Time
}

func (wb *WokiBrain) FindCandidates(in BrainInput) []entity.Candidate {
	if in.PartySize < 1 || in.Duration <= 0 || len(in.Tables) == 0 {
		return nil
	}

	var spans []windowSpan
	for _, w := range in.Windows {
		span := w
		if in.Requested != nil {
			span = w.Intersect(*in.Requested)
			if span.IsEmpty() {
				continue
			}
		}
		spans = append(spans, windowSpan{span: span, anchor: w.Start})
	}
	if len(spans) == 0 {
		return nil
	}

	var candidates []entity.Candidate
	for _, ws := range spans {
		gapsByTable := make(map[string][]entity.Gap, len(in.Tables))
		for _, t := range in.Tables {
			id := t.ID.String()
			gaps := FreeGapsInWindow(ws.span, in.BookingsByTable[id])
			gapsByTable[id] = SubtractBlackouts(gaps, in.BlackoutsByTable[id])
		}

		for _, t := range in.Tables {
			if !t.Fits(in.PartySize) {
				continue
			}
			for _, slot := range wb.enumerateSlots(gapsByTable[t.ID.String()], ws.anchor, in.Duration) {
				candidates = append(candidates, wb.buildCandidate(
					entity.CandidateSingle, []venueentity.Table{t}, slot, ws.anchor, in.PartySize))
			}
		}

		for _, combo := range Combinations(in.Tables) {
			minCap, maxCap := ComboCapacity(combo)
			if in.PartySize < minCap || in.PartySize > maxCap {
				continue
			}
			lists := make([][]entity.Gap, 0, len(combo))
			for _, t := range combo {
				lists = append(lists, gapsByTable[t.ID.String()])
			}
			for _, slot := range wb.enumerateSlots(IntersectAll(lists), ws.anchor, in.Duration) {
				candidates = append(candidates, wb.buildCandidate(
					entity.CandidateCombo, combo, slot, ws.anchor, in.PartySize))
			}
		}
	}

	// Explicit total order; the score is deliberately not the sort key, so
	// determinism never depends on numeric collisions.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Kind != b.Kind {
			return a.Kind == entity.CandidateSingle
		}
		if !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.Before(b.StartsAt)
		}
		wasteA := a.MaxCapacity - in.PartySize
		wasteB := b.MaxCapacity - in.PartySize
		if wasteA != wasteB {
			return wasteA < wasteB
		}
		return strings.Join(a.TableIDs, "+") < strings.Join(b.TableIDs, "+")
	})

	limit := in.Limit
	if limit <= 0 {
		limit = wb.ResultLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// enumerateSlots rounds each gap inward to the grid and yields every aligned
// start offset that leaves room for the full duration.
func (wb *WokiBrain) enumerateSlots(gaps []entity.Gap, anchor time.Time, duration time.Duration) []entity.Gap {
	var slots []entity.Gap
	for _, g := range gaps {
		start := alignUp(g.Start, anchor, wb.GridUnit)
		end := alignDown(g.End, anchor, wb.GridUnit)
		if end.Sub(start) < duration {
			continue
		}
		for st := start; !st.Add(duration).After(end); st = st.Add(wb.GridUnit) {
			slots = append(slots, entity.Gap{Start: st, End: st.Add(duration)})
		}
	}
	return slots
}

func (wb *WokiBrain) buildCandidate(kind entity.CandidateKind, tables []venueentity.Table, slot entity.Gap, anchor time.Time, partySize int) entity.Candidate {
	ids := make([]string, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID.String())
	}
	sort.Strings(ids)

	minCap, maxCap := ComboCapacity(tables)
	waste := maxCap - partySize

	score := 0
	if kind == entity.CandidateCombo {
		score = constants.ComboScoreBase
	}
	score += constants.WasteScoreWeight * waste
	startSlot := int(slot.Start.Sub(anchor) / wb.GridUnit)
	if startSlot > constants.StartScoreCap {
		startSlot = constants.StartScoreCap
	}
	score += startSlot

	var rationale string
	label := "single table"
	if kind == entity.CandidateCombo {
		label = fmt.Sprintf("%d-table combo", len(tables))
	}
	if waste == 0 {
		rationale = fmt.Sprintf("%s seating %d-%d, perfect fit", label, minCap, maxCap)
	} else {
		rationale = fmt.Sprintf("%s seating %d-%d, %d spare seats", label, minCap, maxCap, waste)
	}

	return entity.Candidate{
		Kind:        kind,
		TableIDs:    ids,
		StartsAt:    slot.Start,
		EndsAt:      slot.End,
		MinCapacity: minCap,
		MaxCapacity: maxCap,
		Score:       score,
		Rationale:   rationale,
	}
}

func alignUp(t, anchor time.Time, unit time.Duration) time.Time {
	d := t.Sub(anchor)
	if d <= 0 {
		return anchor
	}
	if r := d % unit; r != 0 {
		d += unit - r
	}
	return anchor.Add(d)
}

func alignDown(t, anchor time.Time, unit time.Duration) time.Time {
	d := t.Sub(anchor)
	if d <= 0 {
		return anchor
	}
	d -= d % unit
	return anchor.Add(d)
}
