package service

import (
	venueentity "woki-api/modules/venue/entity"
)

// Combinations enumerates every subset of two or more tables via
// backtracking. Deliberately exponential: sectors hold tens of tables at
// most, and the enumeration order does not matter because the allocation
// strategy imposes a total order afterwards.
func Combinations(tables []venueentity.Table) [][]venueentity.Table {
	var result [][]venueentity.Table
	current := make([]venueentity.Table, 0, len(tables))

	var backtrack func(start int)
	backtrack = func(start int) {
		if len(current) >= 2 {
			combo := make([]venueentity.Table, len(current))
			copy(combo, current)
			result = append(result, combo)
		}
		for i := start; i < len(tables); i++ {
			current = append(current, tables[i])
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}
	backtrack(0)
	return result
}

// ComboCapacity sums the capacity ranges of a table set. A plain
// order-independent sum, chosen for predictability over tighter packing
// models.
func ComboCapacity(tables []venueentity.Table) (minCapacity, maxCapacity int) {
	for _, t := range tables {
		minCapacity += t.MinSize
		maxCapacity += t.MaxSize
	}
	return minCapacity, maxCapacity
}
