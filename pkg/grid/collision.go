package grid

// Collides reports whether a and b overlap on both axes.
// Items that only share an edge do not collide.
func Collides(a, b Item) bool {
	return !(a.Right() <= b.X ||
		b.Right() <= a.X ||
		a.Bottom() <= b.Y ||
		b.Bottom() <= a.Y)
}

// Collision is a pair of overlapping item IDs. A precedes B in input order.
type Collision struct {
	A string `json:"a"`
	B string `json:"b"`
}

// DetectCollisions returns every colliding pair. It compares all pairs,
// which is fine for the tens of items a dashboard holds.
func DetectCollisions(items []Item) []Collision {
	var out []Collision
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if Collides(items[i], items[j]) {
				out = append(out, Collision{A: items[i].ID, B: items[j].ID})
			}
		}
	}
	return out
}

// collidesAny reports whether it overlaps any item in others.
func collidesAny(it Item, others []Item) bool {
	for _, o := range others {
		if Collides(it, o) {
			return true
		}
	}
	return false
}
