package events

import (
	"slices"
)

// Schedule returns a copy of evts ordered by date. On equal dates interest
// comes before payments, and payments keep their input order.
func Schedule(evts []Event) []Event {
	ordered := slices.Clone(evts)
	slices.SortStableFunc(ordered, func(a, b Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.Kind) - int(b.Kind)
	})
	return ordered
}
