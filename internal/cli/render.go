package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
)

const (
	defaultTermWidth = 100
	maxCellWidth     = 5
)

// itemColors are background colors cycled across components.
var itemColors = []lipgloss.Color{"24", "29", "94", "54", "88", "60", "31", "130"}

var (
	styleEmptyCell    = lipgloss.NewStyle().Foreground(colorDim)
	styleConflictCell = lipgloss.NewStyle().Background(colorRed).Foreground(colorWhite)
	styleSelected     = lipgloss.NewStyle().Bold(true).Underline(true)
	styleGridBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// gridView renders layout items as colored blocks, one terminal line per
// grid row. Overlapping cells are drawn in red.
type gridView struct {
	Columns  int
	Width    int    // terminal columns available
	Selected string // highlighted item ID
}

// cellWidth returns how many terminal columns one grid column gets.
func (v gridView) cellWidth() int {
	cols := max(v.Columns, 1)
	return min(max((v.Width-2)/cols, 1), maxCellWidth)
}

const (
	cellEmpty    = -1
	cellConflict = -2
)

// owners maps every cell to the index of the item covering it.
func owners(items []grid.Item, columns, rows int) [][]int {
	out := make([][]int, rows)
	for y := range out {
		out[y] = make([]int, columns)
		for x := range out[y] {
			out[y][x] = cellEmpty
		}
	}
	for i, it := range items {
		for y := max(it.Y, 0); y < min(it.Bottom(), rows); y++ {
			for x := max(it.X, 0); x < min(it.Right(), columns); x++ {
				if out[y][x] == cellEmpty {
					out[y][x] = i
				} else {
					out[y][x] = cellConflict
				}
			}
		}
	}
	return out
}

func (v gridView) Render(items []grid.Item) string {
	cw := v.cellWidth()
	rows := max(grid.MaxBottom(items), 1)
	cells := owners(items, v.Columns, rows)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < v.Columns; {
			owner := cells[y][x]
			run := 1
			for x+run < v.Columns && cells[y][x+run] == owner {
				run++
			}
			b.WriteString(v.renderRun(items, owner, x, y, run*cw))
			x += run
		}
	}
	return styleGridBorder.Render(b.String())
}

func (v gridView) renderRun(items []grid.Item, owner, x, y, width int) string {
	switch owner {
	case cellEmpty:
		return styleEmptyCell.Render(strings.Repeat("·", width))
	case cellConflict:
		return styleConflictCell.Render(strings.Repeat("x", width))
	}

	it := items[owner]
	label := ""
	if x == it.X && y == it.Y {
		label = it.ID
		if len(label) > width {
			label = label[:width]
		}
	}
	style := lipgloss.NewStyle().
		Background(itemColors[owner%len(itemColors)]).
		Foreground(colorWhite).
		Width(width)
	if it.ID == v.Selected {
		style = style.Inherit(styleSelected)
	}
	return style.Render(label)
}

// renderItemTable writes one row per component.
func renderItemTable(w io.Writer, cfg layout.Configuration) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false

	tw.AppendHeader(table.Row{"ID", "Type", "X", "Y", "W", "H", "Min", "Max", "Static"})
	for _, it := range cfg.Items {
		static := text.FgHiBlack.Sprint("no")
		if it.Static {
			static = text.FgYellow.Sprint("yes")
		}
		tw.AppendRow(table.Row{
			it.ID, it.Type, it.X, it.Y, it.W, it.H,
			sizeLimit(it.MinW, it.MinH), sizeLimit(it.MaxW, it.MaxH), static,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.Render()
}

// sizeLimit formats a min or max constraint pair; zero means unbounded.
func sizeLimit(w, h int) string {
	if w == 0 && h == 0 {
		return "—"
	}
	dim := func(v int) string {
		if v == 0 {
			return "*"
		}
		return strconv.Itoa(v)
	}
	return fmt.Sprintf("%sx%s", dim(w), dim(h))
}

// detectTerminalWidth returns the width of w if it is a terminal, else of
// stdout, else defaultTermWidth.
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return width
	}
	return defaultTermWidth
}
