package grid

import (
	"slices"

	"github.com/vantagedata/dashlayout/pkg/errors"
)

// ClampSize applies an item's min/max constraints and the grid width to a
// requested size. Sizes are never smaller than one cell.
func ClampSize(cfg Config, it Item, w, h int) (int, int) {
	if it.MinW > 0 {
		w = max(w, it.MinW)
	}
	if it.MaxW > 0 {
		w = min(w, it.MaxW)
	}
	if it.MinH > 0 {
		h = max(h, it.MinH)
	}
	if it.MaxH > 0 {
		h = min(h, it.MaxH)
	}
	w = min(max(w, 1), max(cfg.Columns, 1))
	h = max(h, 1)
	return w, h
}

// MoveItem returns a copy of items with the item id moved as close to
// (gx, gy) as [ResolvePosition] allows. Static and unknown items are not
// moved and accepted is false.
func MoveItem(cfg Config, items []Item, id string, gx, gy int) (out []Item, accepted bool) {
	idx := Find(items, id)
	if idx < 0 || items[idx].Static {
		return items, false
	}

	pos := ResolvePosition(cfg, items[idx], gx, gy, items)
	out = slices.Clone(items)
	out[idx].X, out[idx].Y = pos.X, pos.Y
	return out, true
}

// ResizeItem returns a copy of items with the item id resized to (w, h)
// after clamping to its constraints and the right edge of the grid. A
// resize that would overlap another item is rejected and the original
// slice is returned with accepted == false.
func ResizeItem(cfg Config, items []Item, id string, w, h int) (out []Item, accepted bool) {
	idx := Find(items, id)
	if idx < 0 || items[idx].Static {
		return items, false
	}

	it := items[idx]
	w, h = ClampSize(cfg, it, w, h)
	if it.X+w > cfg.Columns {
		w = max(cfg.Columns-it.X, 1)
	}
	it.W, it.H = w, h

	if collidesAny(it, without(items, id)) {
		return items, false
	}

	out = slices.Clone(items)
	out[idx] = it
	return out, true
}

// Validate checks a layout snapshot: unique non-empty IDs, positive sizes
// within constraints, grid bounds, and no overlaps other than between two
// static items.
func Validate(cfg Config, items []Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			return errors.New(errors.ErrCodeInvalidItem, "item id cannot be empty")
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidItem, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true

		if err := validateItem(cfg, it); err != nil {
			return err
		}
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.Static && b.Static {
				continue
			}
			if Collides(a, b) {
				return errors.New(errors.ErrCodeCollision, "items %q and %q overlap", a.ID, b.ID)
			}
		}
	}
	return nil
}

func validateItem(cfg Config, it Item) error {
	if it.W < 1 || it.H < 1 {
		return errors.New(errors.ErrCodeInvalidItem, "item %q must be at least 1x1, got %dx%d", it.ID, it.W, it.H)
	}
	if it.X < 0 || it.Y < 0 {
		return errors.New(errors.ErrCodeInvalidItem, "item %q has negative position (%d,%d)", it.ID, it.X, it.Y)
	}
	if it.Right() > cfg.Columns {
		return errors.New(errors.ErrCodeInvalidItem, "item %q extends past column %d", it.ID, cfg.Columns)
	}
	if it.MinW > 0 && it.W < it.MinW || it.MaxW > 0 && it.W > it.MaxW {
		return errors.New(errors.ErrCodeInvalidItem, "item %q width %d outside [%d,%d]", it.ID, it.W, it.MinW, it.MaxW)
	}
	if it.MinH > 0 && it.H < it.MinH || it.MaxH > 0 && it.H > it.MaxH {
		return errors.New(errors.ErrCodeInvalidItem, "item %q height %d outside [%d,%d]", it.ID, it.H, it.MinH, it.MaxH)
	}
	return nil
}
