package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
	"github.com/vantagedata/dashlayout/pkg/panels"
)

func TestOwners(t *testing.T) {
	items := []grid.Item{
		{ID: "a", X: 0, Y: 0, W: 2, H: 2},
		{ID: "b", X: 1, Y: 1, W: 2, H: 1},
	}
	got := owners(items, 4, 2)
	want := [][]int{
		{0, 0, cellEmpty, cellEmpty},
		{0, cellConflict, 1, cellEmpty},
	}
	for y := range want {
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Errorf("cell (%d,%d) = %d, want %d", x, y, got[y][x], want[y][x])
			}
		}
	}
}

func TestOwnersClipsToGrid(t *testing.T) {
	got := owners([]grid.Item{{ID: "a", X: 3, Y: 1, W: 4, H: 4}}, 4, 2)
	if got[1][3] != 0 || got[0][3] != cellEmpty {
		t.Errorf("owners = %v", got)
	}
}

func TestGridViewCellWidth(t *testing.T) {
	tests := []struct {
		columns, width, want int
	}{
		{24, 100, 4},
		{24, 500, maxCellWidth},
		{24, 10, 1},
		{0, 10, maxCellWidth},
	}
	for _, tt := range tests {
		v := gridView{Columns: tt.columns, Width: tt.width}
		if got := v.cellWidth(); got != tt.want {
			t.Errorf("cellWidth(%d cols, %d wide) = %d, want %d", tt.columns, tt.width, got, tt.want)
		}
	}
}

func TestGridViewRender(t *testing.T) {
	v := gridView{Columns: 24, Width: 24*maxCellWidth + 2}
	out := v.Render(layout.Default().GridItems())

	for _, id := range []string{"metrics-0", "table-0", "image-0", "insights-0", "file_download-0"} {
		if !strings.Contains(out, id) {
			t.Errorf("grid is missing %s", id)
		}
	}
	// 18 grid rows plus the border.
	if lines := strings.Count(out, "\n") + 1; lines != 20 {
		t.Errorf("grid has %d lines, want 20", lines)
	}
	if w := lipgloss.Width(out); w != 24*maxCellWidth+2 {
		t.Errorf("grid width = %d, want %d", w, 24*maxCellWidth+2)
	}
}

func TestGridViewRenderConflicts(t *testing.T) {
	v := gridView{Columns: 4, Width: 4*maxCellWidth + 2}
	out := v.Render([]grid.Item{
		{ID: "a", X: 0, Y: 0, W: 2, H: 1},
		{ID: "b", X: 1, Y: 0, W: 2, H: 1},
	})
	if !strings.Contains(out, strings.Repeat("x", maxCellWidth)) {
		t.Errorf("conflicting cell not drawn:\n%s", out)
	}
	if !strings.Contains(out, "·") {
		t.Errorf("empty cell not drawn:\n%s", out)
	}
}

func TestSizeLimit(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{0, 0, "—"},
		{4, 0, "4x*"},
		{0, 2, "*x2"},
		{4, 2, "4x2"},
	}
	for _, tt := range tests {
		if got := sizeLimit(tt.w, tt.h); got != tt.want {
			t.Errorf("sizeLimit(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderItemTable(t *testing.T) {
	var buf bytes.Buffer
	renderItemTable(&buf, layout.Default())
	out := buf.String()
	for _, want := range []string{"ID", "Static", "metrics-0", "file_download", "4x2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPanelBar(t *testing.T) {
	tests := []struct {
		name string
		w    panels.Widths
		cols int
	}{
		{"defaults", panels.Defaults(1920), 60},
		{"narrow terminal", panels.Defaults(1920), 12},
		{"squeezed window", panels.Defaults(600), 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := panelBar(tt.w, tt.cols)
			if got := lipgloss.Width(bar); got != tt.cols {
				t.Errorf("bar width = %d, want %d", got, tt.cols)
			}
		})
	}

	if bar := panelBar(panels.Widths{}, 60); bar != "" {
		t.Errorf("empty widths drew %q", bar)
	}
}
