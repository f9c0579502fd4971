package study

import (
	"fmt"
	"sort"
)

// SortByOrder sorts lessons in place by ascending Order.
func SortByOrder(lessons []Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
}

// CheckCollection verifies the collection-level invariant: orders are
// 0..n-1 in position, ids are unique, and the status sequence is a run of
// DONE, at most one OPEN, then only LOCKED.
func CheckCollection(lessons []Lesson) error {
	seen := make(map[string]bool, len(lessons))
	phase := StatusDone
	opens := 0

	for i, l := range lessons {
		if l.Order != i {
			return fmt.Errorf("lesson %q at position %d has order %d", l.ID, i, l.Order)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate lesson id %q", l.ID)
		}
		seen[l.ID] = true

		if !l.Status.Valid() {
			return fmt.Errorf("lesson %q has unknown status %q", l.ID, l.Status)
		}

		switch l.Status {
		case StatusDone:
			if phase != StatusDone {
				return fmt.Errorf("lesson %q is DONE after a non-DONE lesson", l.ID)
			}
		case StatusOpen:
			opens++
			if opens > 1 {
				return fmt.Errorf("lesson %q is a second OPEN lesson", l.ID)
			}
			if phase == StatusLocked {
				return fmt.Errorf("lesson %q is OPEN after a LOCKED lesson", l.ID)
			}
			phase = StatusOpen
		case StatusLocked:
			phase = StatusLocked
		}
	}
	return nil
}
