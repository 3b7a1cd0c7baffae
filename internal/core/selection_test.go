package core

import (
	"reflect"
	"testing"
)

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection(3)

	if !sel.Toggle(1) {
		t.Error("Toggle(1) on empty set should select")
	}
	if !sel.Contains(1) || sel.Size() != 1 {
		t.Errorf("after Toggle(1): Contains=%v Size=%d", sel.Contains(1), sel.Size())
	}
	if sel.Toggle(1) {
		t.Error("second Toggle(1) should deselect")
	}
	if sel.Size() != 0 {
		t.Errorf("Size = %d, want 0", sel.Size())
	}
}

func TestSelection_OutOfRangeIsNoop(t *testing.T) {
	sel := NewSelection(2)
	sel.Toggle(0)

	for _, i := range []int{-1, 2, 100} {
		if sel.Toggle(i) {
			t.Errorf("Toggle(%d) reported selected", i)
		}
	}
	if got := sel.Indices(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Indices = %v, want [0]", got)
	}

	empty := NewSelection(0)
	if empty.Toggle(0) || empty.Size() != 0 {
		t.Error("Toggle on a zero-row selection must be a no-op")
	}
}

func TestSelection_ToggleIsInvolution(t *testing.T) {
	const rows = 6
	sel := NewSelection(rows)
	sel.Toggle(0)
	sel.Toggle(3)
	before := sel.Indices()

	for i := -1; i <= rows; i++ {
		sel.Toggle(i)
		sel.Toggle(i)
		if got := sel.Indices(); !reflect.DeepEqual(got, before) {
			t.Fatalf("after double Toggle(%d): %v, want %v", i, got, before)
		}
	}
}

func TestSelection_IndicesSortedAndClear(t *testing.T) {
	sel := NewSelection(10)
	for _, i := range []int{7, 2, 9, 0} {
		sel.Toggle(i)
	}

	if got, want := sel.Indices(), []int{0, 2, 7, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indices = %v, want %v", got, want)
	}

	sel.Clear()
	if sel.Size() != 0 || len(sel.Indices()) != 0 {
		t.Errorf("after Clear: Size=%d Indices=%v", sel.Size(), sel.Indices())
	}
	if !sel.Toggle(9) {
		t.Error("Clear must keep the index bound")
	}
}
