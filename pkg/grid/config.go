package grid

import (
	"math"

	"github.com/vantagedata/dashlayout/pkg/errors"
)

// Default grid geometry.
const (
	DefaultColumns   = 24
	DefaultRowHeight = 30.0
	DefaultMargin    = 10.0
	DefaultPadding   = 10.0
)

// Config is the static geometry of a grid. It does not change during a
// layout session.
type Config struct {
	Columns          int        `json:"columns" toml:"columns" yaml:"columns"`
	RowHeight        float64    `json:"rowHeight" toml:"row_height" yaml:"rowHeight"`
	Margin           [2]float64 `json:"margin" toml:"margin" yaml:"margin"`
	ContainerPadding [2]float64 `json:"containerPadding" toml:"container_padding" yaml:"containerPadding"`
}

// DefaultConfig returns the 24-column dashboard grid.
func DefaultConfig() Config {
	return Config{
		Columns:          DefaultColumns,
		RowHeight:        DefaultRowHeight,
		Margin:           [2]float64{DefaultMargin, DefaultMargin},
		ContainerPadding: [2]float64{DefaultPadding, DefaultPadding},
	}
}

// Validate checks that the geometry is usable.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid columns must be at least 1, got %d", c.Columns)
	}
	if c.RowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid row height must be positive, got %v", c.RowHeight)
	}
	for _, v := range []float64{c.Margin[0], c.Margin[1], c.ContainerPadding[0], c.ContainerPadding[1]} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "grid margins and padding cannot be negative")
		}
	}
	return nil
}

// Metrics converts between grid units and pixels for a container of a
// given width. Column width is recomputed whenever the container resizes.
type Metrics struct {
	Config         Config
	ContainerWidth float64
	ColumnWidth    float64
}

// NewMetrics derives pixel metrics from the grid config and the current
// container width.
func NewMetrics(cfg Config, containerWidth float64) Metrics {
	cols := max(cfg.Columns, 1)
	colWidth := (containerWidth - 2*cfg.ContainerPadding[0]) / float64(cols)
	if colWidth < 0 {
		colWidth = 0
	}
	return Metrics{
		Config:         cfg,
		ContainerWidth: containerWidth,
		ColumnWidth:    colWidth,
	}
}

// GridToPixel returns the pixel offset of a grid cell's top-left corner.
func (m Metrics) GridToPixel(x, y int) (px, py float64) {
	px = float64(x)*m.ColumnWidth + m.Config.ContainerPadding[0]
	py = float64(y)*m.Config.RowHeight + m.Config.ContainerPadding[1]
	return px, py
}

// PixelToGrid snaps a pixel offset to the nearest grid cell. The result is
// not clamped to the grid bounds.
func (m Metrics) PixelToGrid(px, py float64) (x, y int) {
	if m.ColumnWidth > 0 {
		x = int(math.Round((px - m.Config.ContainerPadding[0]) / m.ColumnWidth))
	}
	if m.Config.RowHeight > 0 {
		y = int(math.Round((py - m.Config.ContainerPadding[1]) / m.Config.RowHeight))
	}
	return x, y
}

// PixelRect is an item's box in container pixels.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ItemRect returns the pixel box of an item. The box is shrunk by the grid
// margin so that adjacent items are separated by exactly one margin.
func (m Metrics) ItemRect(it Item) PixelRect {
	left, top := m.GridToPixel(it.X, it.Y)
	return PixelRect{
		Left:   left,
		Top:    top,
		Width:  math.Max(0, float64(it.W)*m.ColumnWidth-m.Config.Margin[0]),
		Height: math.Max(0, float64(it.H)*m.Config.RowHeight-m.Config.Margin[1]),
	}
}

// PixelDeltaToGrid converts a pointer delta to a whole number of grid cells.
func (m Metrics) PixelDeltaToGrid(dx, dy float64) (gx, gy int) {
	if m.ColumnWidth > 0 {
		gx = int(math.Round(dx / m.ColumnWidth))
	}
	if m.Config.RowHeight > 0 {
		gy = int(math.Round(dy / m.Config.RowHeight))
	}
	return gx, gy
}
