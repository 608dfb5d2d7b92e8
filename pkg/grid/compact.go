package grid

import (
	"cmp"
	"slices"
)

// CompactResult is the output of [CompactLayout].
type CompactResult struct {
	Items   []Item `json:"items"`
	Changed bool   `json:"changed"`
}

// CompactLayout pulls items upward to close vertical gaps.
//
// Items are visited in (y, x, id) order. Each non-static item moves to the
// smallest row at which it does not overlap a static item or any item
// visited before it; later items never block earlier ones. Static items
// stay where they are. The returned slice keeps the input order and the
// input is left untouched.
//
// Compacting an already compact layout reports Changed == false.
func CompactLayout(items []Item) CompactResult {
	out := slices.Clone(items)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ia, ib := out[a], out[b]
		if c := cmp.Compare(ia.Y, ib.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(ia.X, ib.X); c != 0 {
			return c
		}
		return cmp.Compare(ia.ID, ib.ID)
	})

	placed := make([]Item, 0, len(out))
	for _, it := range out {
		if it.Static {
			placed = append(placed, it)
		}
	}

	changed := false
	for _, idx := range order {
		it := out[idx]
		if it.Static {
			continue
		}

		y := 0
		for collidesAny(it.At(it.X, y), placed) {
			y++
		}

		if y != it.Y {
			out[idx].Y = y
			changed = true
		}
		placed = append(placed, out[idx])
	}

	return CompactResult{Items: out, Changed: changed}
}
