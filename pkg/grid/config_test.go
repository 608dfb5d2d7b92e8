package grid

import (
	"testing"

	"github.com/vantagedata/dashlayout/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	bad := []Config{
		{Columns: 0, RowHeight: 30},
		{Columns: 12, RowHeight: 0},
		{Columns: 12, RowHeight: 30, Margin: [2]float64{-1, 0}},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("bad[%d].Validate() = %v, want INVALID_CONFIG", i, err)
		}
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(DefaultConfig(), 1220)

	if m.ColumnWidth != 50 {
		t.Fatalf("ColumnWidth = %v, want 50", m.ColumnWidth)
	}

	px, py := m.GridToPixel(3, 2)
	if px != 160 || py != 70 {
		t.Errorf("GridToPixel(3,2) = (%v,%v), want (160,70)", px, py)
	}

	x, y := m.PixelToGrid(px, py)
	if x != 3 || y != 2 {
		t.Errorf("PixelToGrid(%v,%v) = (%d,%d), want (3,2)", px, py, x, y)
	}

	r := m.ItemRect(Item{X: 1, Y: 1, W: 2, H: 3})
	want := PixelRect{Left: 60, Top: 40, Width: 90, Height: 80}
	if r != want {
		t.Errorf("ItemRect() = %+v, want %+v", r, want)
	}

	gx, gy := m.PixelDeltaToGrid(-76, 44)
	if gx != -2 || gy != 1 {
		t.Errorf("PixelDeltaToGrid() = (%d,%d), want (-2,1)", gx, gy)
	}
}

func TestMetricsZeroWidth(t *testing.T) {
	m := NewMetrics(DefaultConfig(), 0)
	if m.ColumnWidth != 0 {
		t.Errorf("ColumnWidth = %v, want 0", m.ColumnWidth)
	}
	if x, _ := m.PixelToGrid(500, 0); x != 0 {
		t.Errorf("PixelToGrid with zero columns = %d, want 0", x)
	}
}

func TestEngineResize(t *testing.T) {
	e := NewEngine(DefaultConfig(), 1220)
	e.Resize(620)
	if got := e.Metrics().ColumnWidth; got != 25 {
		t.Errorf("ColumnWidth after resize = %v, want 25", got)
	}
}
