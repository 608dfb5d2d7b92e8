package grid

// Item is the position and size of one dashboard component in grid units.
// Zero Min/Max values mean "no constraint".
type Item struct {
	ID     string `json:"i" yaml:"i" bson:"i"`
	X      int    `json:"x" yaml:"x" bson:"x"`
	Y      int    `json:"y" yaml:"y" bson:"y"`
	W      int    `json:"w" yaml:"w" bson:"w"`
	H      int    `json:"h" yaml:"h" bson:"h"`
	MinW   int    `json:"minW,omitempty" yaml:"minW,omitempty" bson:"minW,omitempty"`
	MinH   int    `json:"minH,omitempty" yaml:"minH,omitempty" bson:"minH,omitempty"`
	MaxW   int    `json:"maxW,omitempty" yaml:"maxW,omitempty" bson:"maxW,omitempty"`
	MaxH   int    `json:"maxH,omitempty" yaml:"maxH,omitempty" bson:"maxH,omitempty"`
	Static bool   `json:"static" yaml:"static" bson:"static"`
}

// Right returns the first column to the right of the item.
func (it Item) Right() int { return it.X + it.W }

// Bottom returns the first row below the item.
func (it Item) Bottom() int { return it.Y + it.H }

// At returns a copy of the item moved to (x, y).
func (it Item) At(x, y int) Item {
	it.X, it.Y = x, y
	return it
}

// Position is a resolved grid cell for an item's top-left corner.
// Fallback is set when no free cell was found in the scanned range and the
// item was appended below every other item.
type Position struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Fallback bool `json:"fallback,omitempty"`
}

// MaxBottom returns the lowest occupied row boundary across items, or 0
// for an empty slice.
func MaxBottom(items []Item) int {
	bottom := 0
	for _, it := range items {
		bottom = max(bottom, it.Bottom())
	}
	return bottom
}

// Find returns the index of the item with the given ID, or -1.
func Find(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func without(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
