package core

import "sort"

// Selection is a set of row indices bounded by the row count of the
// document it was created for. Out-of-range indices are never stored.
type Selection struct {
	limit int
	set   map[int]struct{}
}

// NewSelection returns an empty selection over rows [0, rows).
func NewSelection(rows int) *Selection {
	if rows < 0 {
		rows = 0
	}
	return &Selection{limit: rows, set: make(map[int]struct{})}
}

// Toggle flips membership of i and reports whether i is now selected.
// An out-of-range index is ignored and reports false.
func (s *Selection) Toggle(i int) bool {
	if !s.inRange(i) {
		return false
	}
	if _, ok := s.set[i]; ok {
		delete(s.set, i)
		return false
	}
	s.set[i] = struct{}{}
	return true
}

// Contains reports whether i is selected.
func (s *Selection) Contains(i int) bool {
	_, ok := s.set[i]
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.set)
}

// Size returns the number of selected rows.
func (s *Selection) Size() int {
	return len(s.set)
}

// Indices returns the selected indices in ascending order.
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.set))
	for i := range s.set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *Selection) inRange(i int) bool {
	return i >= 0 && i < s.limit
}
