package grid

import "testing"

func TestCollides(t *testing.T) {
	tests := []struct {
		name string
		a, b Item
		want bool
	}{
		{
			name: "overlapping",
			a:    Item{X: 0, Y: 0, W: 4, H: 4},
			b:    Item{X: 2, Y: 2, W: 4, H: 4},
			want: true,
		},
		{
			name: "contained",
			a:    Item{X: 0, Y: 0, W: 10, H: 10},
			b:    Item{X: 2, Y: 2, W: 1, H: 1},
			want: true,
		},
		{
			name: "touching horizontally",
			a:    Item{X: 0, Y: 0, W: 4, H: 4},
			b:    Item{X: 4, Y: 0, W: 4, H: 4},
			want: false,
		},
		{
			name: "touching vertically",
			a:    Item{X: 0, Y: 0, W: 4, H: 4},
			b:    Item{X: 0, Y: 4, W: 4, H: 4},
			want: false,
		},
		{
			name: "overlap on one axis only",
			a:    Item{X: 0, Y: 0, W: 4, H: 4},
			b:    Item{X: 2, Y: 10, W: 4, H: 4},
			want: false,
		},
		{
			name: "identical",
			a:    Item{X: 3, Y: 3, W: 2, H: 2},
			b:    Item{X: 3, Y: 3, W: 2, H: 2},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.a, tt.b); got != tt.want {
				t.Errorf("Collides(a, b) = %v, want %v", got, tt.want)
			}
			if got := Collides(tt.b, tt.a); got != tt.want {
				t.Errorf("Collides(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectCollisions(t *testing.T) {
	items := []Item{
		{ID: "a", X: 0, Y: 0, W: 4, H: 4},
		{ID: "b", X: 2, Y: 2, W: 4, H: 4},
		{ID: "c", X: 3, Y: 3, W: 1, H: 1},
		{ID: "d", X: 20, Y: 0, W: 4, H: 4},
	}

	got := DetectCollisions(items)
	want := []Collision{{"a", "b"}, {"a", "c"}, {"b", "c"}}

	if len(got) != len(want) {
		t.Fatalf("DetectCollisions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("collision[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDetectCollisionsEmpty(t *testing.T) {
	if got := DetectCollisions(nil); len(got) != 0 {
		t.Errorf("DetectCollisions(nil) = %v, want empty", got)
	}
	if got := DetectCollisions([]Item{{ID: "a", W: 1, H: 1}}); len(got) != 0 {
		t.Errorf("DetectCollisions(single) = %v, want empty", got)
	}
}
