package grid

import "testing"

func TestResolvePosition(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		item     Item
		gx, gy   int
		existing []Item
		want     Position
	}{
		{
			name: "free cell is kept",
			item: Item{ID: "m", W: 4, H: 2},
			gx:   3, gy: 2,
			want: Position{X: 3, Y: 2},
		},
		{
			name: "clamped to right edge",
			item: Item{ID: "m", W: 4, H: 2},
			gx:   30, gy: 0,
			want: Position{X: 20, Y: 0},
		},
		{
			name: "negative coordinates clamp to origin",
			item: Item{ID: "m", W: 4, H: 2},
			gx:   -3, gy: -5,
			want: Position{X: 0, Y: 0},
		},
		{
			name:     "first free column in the same row",
			item:     Item{ID: "m", W: 4, H: 4},
			gx:       2, gy: 0,
			existing: []Item{{ID: "a", X: 0, Y: 0, W: 10, H: 4}},
			want:     Position{X: 10, Y: 0},
		},
		{
			name:     "full-width obstacle pushes to the next free row at column 0",
			item:     Item{ID: "m", W: 4, H: 2},
			gx:       5, gy: 1,
			existing: []Item{{ID: "a", X: 0, Y: 0, W: 24, H: 4}},
			want:     Position{X: 0, Y: 4},
		},
		{
			name:     "self is ignored",
			item:     Item{ID: "m", X: 3, Y: 2, W: 4, H: 2},
			gx:       4, gy: 2,
			existing: []Item{{ID: "m", X: 3, Y: 2, W: 4, H: 2}},
			want:     Position{X: 4, Y: 2},
		},
		{
			name:     "static items are obstacles",
			item:     Item{ID: "m", W: 4, H: 2},
			gx:       0, gy: 0,
			existing: []Item{{ID: "s", X: 0, Y: 0, W: 12, H: 2, Static: true}},
			want:     Position{X: 12, Y: 0},
		},
		{
			name: "search starts at the requested row, not above it",
			item: Item{ID: "m", W: 4, H: 2},
			gx:   0, gy: 3,
			existing: []Item{
				{ID: "a", X: 0, Y: 3, W: 24, H: 2},
			},
			want: Position{X: 0, Y: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePosition(cfg, tt.item, tt.gx, tt.gy, tt.existing)
			if got != tt.want {
				t.Errorf("ResolvePosition() = %+v, want %+v", got, tt.want)
			}
			placed := tt.item.At(got.X, got.Y)
			if collidesAny(placed, without(tt.existing, tt.item.ID)) {
				t.Errorf("resolved position %+v collides", got)
			}
		})
	}
}

func TestEngineCalculatePosition(t *testing.T) {
	// (1220 - 2*10) / 24 = 50px columns
	e := NewEngine(DefaultConfig(), 1220)

	got := e.CalculatePosition(Item{ID: "m", W: 4, H: 2}, 160, 70, nil)
	if want := (Position{X: 3, Y: 2}); got != want {
		t.Errorf("CalculatePosition() = %+v, want %+v", got, want)
	}

	// Just under half a column still rounds down.
	got = e.CalculatePosition(Item{ID: "m", W: 4, H: 2}, 10+50*3+24, 10, nil)
	if got.X != 3 {
		t.Errorf("CalculatePosition().X = %d, want 3", got.X)
	}
}

func TestResolvePositionNeverCollides(t *testing.T) {
	cfg := DefaultConfig()
	existing := []Item{
		{ID: "a", X: 0, Y: 0, W: 8, H: 4},
		{ID: "b", X: 8, Y: 0, W: 8, H: 4},
		{ID: "c", X: 16, Y: 0, W: 8, H: 3},
		{ID: "d", X: 0, Y: 4, W: 24, H: 2, Static: true},
	}

	for gx := -2; gx < 26; gx++ {
		for gy := -2; gy < 12; gy++ {
			item := Item{ID: "m", W: 5, H: 3}
			pos := ResolvePosition(cfg, item, gx, gy, existing)
			if collidesAny(item.At(pos.X, pos.Y), existing) {
				t.Fatalf("ResolvePosition(%d,%d) = %+v collides", gx, gy, pos)
			}
			if pos.X < 0 || pos.X+item.W > cfg.Columns || pos.Y < 0 {
				t.Fatalf("ResolvePosition(%d,%d) = %+v out of bounds", gx, gy, pos)
			}
		}
	}
}
