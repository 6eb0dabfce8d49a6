package service

import "woki-api/modules/booking/entity"

// IntersectGaps merges two sorted gap lists into the intervals covered by
// both, using a two-pointer sweep: emit the overlap of the current pair and
// advance whichever gap ends first. O(n+m).
func IntersectGaps(a, b []entity.Gap) []entity.Gap {
	var result []entity.Gap
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		overlap := a[i].Intersect(b[j])
		if !overlap.IsEmpty() {
			result = append(result, overlap)
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return result
}

// IntersectAll folds IntersectGaps over N lists, yielding exactly the times
// all input resources are simultaneously free.
func IntersectAll(lists [][]entity.Gap) []entity.Gap {
	if len(lists) == 0 {
		return nil
	}
	result := lists[0]
	for _, l := range lists[1:] {
		if len(result) == 0 {
			return nil
		}
		result = IntersectGaps(result, l)
	}
	return result
}
