package quiz

import "slices"

// ToggleOrSelect applies one click on a choice to the current selection.
// Single-answer questions replace the selection with the clicked index;
// multi-answer questions toggle it. The result is sorted and current is
// left unchanged.
func ToggleOrSelect(current []int, clicked int, multiple bool) []int {
	if !multiple {
		return []int{clicked}
	}
	next := normalizeSelection(current)
	i, found := slices.BinarySearch(next, clicked)
	if found {
		return slices.Delete(next, i, i+1)
	}
	return slices.Insert(next, i, clicked)
}

// normalizeSelection returns a sorted copy without duplicates.
func normalizeSelection(indices []int) []int {
	out := slices.Clone(indices)
	if out == nil {
		out = []int{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func sameSet(a, b []int) bool {
	return slices.Equal(normalizeSelection(a), normalizeSelection(b))
}
