package grid

// SearchBuffer is how many rows past the lowest existing item the
// position resolver scans before giving up and appending.
const SearchBuffer = 10

// ResolvePosition snaps item to (gx, gy), clamps it into the grid and, if
// that cell collides with another item, finds the first free cell in
// row-major order starting at the clamped row. Items sharing item.ID are
// ignored so callers can pass the full layout while moving one of its
// members.
//
// It never fails: when the scan finds nothing the item is appended at
// column 0 just below the lowest existing item.
func ResolvePosition(cfg Config, item Item, gx, gy int, existing []Item) Position {
	maxX := max(cfg.Columns-item.W, 0)
	x := min(max(gx, 0), maxX)
	y := max(gy, 0)

	others := without(existing, item.ID)
	if !collidesAny(item.At(x, y), others) {
		return Position{X: x, Y: y}
	}

	bottom := MaxBottom(others)
	for row := y; row <= bottom+SearchBuffer; row++ {
		for col := 0; col <= maxX; col++ {
			if !collidesAny(item.At(col, row), others) {
				return Position{X: col, Y: row}
			}
		}
	}

	return Position{X: 0, Y: bottom + 1, Fallback: true}
}
