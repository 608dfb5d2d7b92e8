package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vantagedata/dashlayout/pkg/panels"
)

const defaultWindowWidth = 1920

var (
	stylePanelSide   = lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(colorWhite)
	stylePanelCenter = lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(colorWhite)
)

// panelsCommand creates the panels command tree.
func (c *CLI) panelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Calculate, drag and persist panel widths",
		Long: `Calculate, drag and persist the widths of the three window panels: the
data-source sidebar on the left, the dashboard in the center and the chat
panel on the right.

Widths are in pixels. The center panel never drops below its minimum
while the window is wide enough for every minimum.`,
	}

	cmd.AddCommand(c.panelsCalcCommand())
	cmd.AddCommand(c.panelsDragCommand())
	cmd.AddCommand(c.panelsSaveCommand())
	cmd.AddCommand(c.panelsLoadCommand())
	cmd.AddCommand(c.panelsClearCommand())

	return cmd
}

func (c *CLI) panelsCalcCommand() *cobra.Command {
	var total, left, right float64
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Allocate a window width between the panels",
		RunE: func(cmd *cobra.Command, args []string) error {
			printWidths(c.Config.Panels.Calculate(total, left, right))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&total, "total", "t", defaultWindowWidth, "window width")
	cmd.Flags().Float64Var(&left, "left", panels.DefaultLeft, "desired left width")
	cmd.Flags().Float64Var(&right, "right", panels.DefaultRight, "desired right width")
	return cmd
}

func (c *CLI) panelsDragCommand() *cobra.Command {
	var (
		total  float64
		handle string
		deltas []float64
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Drag a splitter from the saved widths",
		Long: `Drag a splitter starting from the saved widths (or the defaults).
Each --dx is a cumulative pointer offset from the start of the drag, as a
pointer reports it; the widths after every step are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := panels.ParseHandle(handle)
			if err != nil {
				return err
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			p := c.newPersister(s)

			d := panels.NewDrag(c.Config.Panels)
			d.Start(h, p.LoadPanelWidths(cmd.Context(), total), total)
			for _, dx := range deltas {
				w := d.Move(dx)
				printDetail("dx %+.0f → left %.0f, center %.0f, right %.0f", dx, w.Left, w.Center, w.Right)
			}
			final := d.End()
			printWidths(final)

			if save {
				if p.SavePanelWidths(cmd.Context(), final) {
					printSuccess("Saved panel widths")
				} else {
					printWarning("Panel widths were not saved")
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&total, "total", "t", defaultWindowWidth, "window width")
	cmd.Flags().StringVar(&handle, "handle", string(panels.HandleLeft), "splitter to drag: left or right")
	cmd.Flags().Float64SliceVar(&deltas, "dx", nil, "cumulative pointer offsets in pixels (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the final widths")
	return cmd
}

func (c *CLI) panelsSaveCommand() *cobra.Command {
	var total, left, right, sidebar float64
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Persist panel widths",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			p := c.newPersister(s)

			w := c.Config.Panels.Calculate(total, left, right)
			ok := p.SavePanelWidths(cmd.Context(), w)
			if cmd.Flags().Changed("sidebar") {
				ok = p.SaveSidebarWidth(cmd.Context(), sidebar) && ok
			}
			if !ok {
				printWarning("Panel widths were not saved")
				return nil
			}
			printSuccess("Saved panel widths")
			printWidths(w)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&total, "total", "t", defaultWindowWidth, "window width used to clamp the widths")
	cmd.Flags().Float64Var(&left, "left", panels.DefaultLeft, "left width")
	cmd.Flags().Float64Var(&right, "right", panels.DefaultRight, "right width")
	cmd.Flags().Float64Var(&sidebar, "sidebar", 0, "collapsed-sidebar width to remember")
	return cmd
}

func (c *CLI) panelsLoadCommand() *cobra.Command {
	var total float64
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Restore panel widths for a window width",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			p := c.newPersister(s)

			printWidths(p.LoadPanelWidths(cmd.Context(), total))
			if sidebar, ok := p.LoadSidebarWidth(cmd.Context()); ok {
				printKeyValue("sidebar", fmt.Sprintf("%.0f", sidebar))
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&total, "total", "t", defaultWindowWidth, "window width")
	return cmd
}

func (c *CLI) panelsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved panel widths",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if c.newPersister(s).ClearPanelWidths(cmd.Context()) {
				printSuccess("Cleared panel widths")
			} else {
				printWarning("Panel widths were not cleared")
			}
			return nil
		},
	}
}

// printWidths prints the widths and a proportional bar.
func printWidths(w panels.Widths) {
	printKeyValue("left", fmt.Sprintf("%.0f", w.Left))
	printKeyValue("center", fmt.Sprintf("%.0f", w.Center))
	printKeyValue("right", fmt.Sprintf("%.0f", w.Right))
	fmt.Fprintln(stdout, panelBar(w, min(detectTerminalWidth(stdout), 120)))
}

// panelBar draws the three panels scaled to cols terminal columns.
func panelBar(w panels.Widths, cols int) string {
	total := w.Total()
	if total <= 0 || cols < 3 {
		return ""
	}
	left := max(int(math.Round(w.Left/total*float64(cols))), 1)
	right := max(int(math.Round(w.Right/total*float64(cols))), 1)
	center := max(cols-left-right, 1)

	cell := func(style lipgloss.Style, label string, n int) string {
		if len(label) > n {
			label = label[:n]
		}
		return style.Width(n).Render(label + strings.Repeat(" ", n-len(label)))
	}
	return cell(stylePanelSide, "sources", left) +
		cell(stylePanelCenter, "dashboard", center) +
		cell(stylePanelSide, "chat", right)
}
