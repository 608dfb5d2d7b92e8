package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vantagedata/dashlayout/pkg/a11y"
	"github.com/vantagedata/dashlayout/pkg/dashboard"
	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
)

// layoutTarget selects where a layout command reads and writes: a layout
// file, or a user's layout in the configured repository.
type layoutTarget struct {
	user string
	file string
}

func (t *layoutTarget) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&t.user, "user", "u", defaultUser, "user whose saved layout to use")
	cmd.Flags().StringVarP(&t.file, "file", "f", "", "layout file (.json, .yaml) instead of the repository")
}

// openSession is a layout session plus what it takes to save and close it.
type openSession struct {
	*dashboard.Session
	file      string
	backends  *backends
	announcer *a11y.Manager
}

// openSession starts a session on the target. Repository-backed sessions
// persist every commit; file-backed ones are written by save.
func (c *CLI) openSession(ctx context.Context, t layoutTarget) (*openSession, error) {
	bus := events.NewBus()
	announcer := a11y.NewManager(bus, a11y.DefaultHistory)
	opts := dashboard.Options{
		Grid:      c.Config.Grid,
		Bus:       bus,
		Announcer: announcer,
		Logger:    c.Logger,
	}

	if t.file != "" {
		cfg, err := layout.ReadFile(t.file)
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", t.file, err)
		}
		if cfg.UserID == "" {
			cfg.UserID = t.user
		}
		return &openSession{Session: dashboard.NewSession(cfg, opts), file: t.file, announcer: announcer}, nil
	}

	b, err := c.openBackends(ctx)
	if err != nil {
		return nil, err
	}
	opts.Repository = b.repo
	s, err := dashboard.Open(ctx, t.user, opts)
	if err != nil {
		b.Close()
		return nil, err
	}
	return &openSession{Session: s, backends: b, announcer: announcer}, nil
}

// save writes file-backed sessions back to their file.
func (s *openSession) save() error {
	if s.file == "" {
		return nil
	}
	return layout.WriteFile(s.file, s.Configuration())
}

func (s *openSession) Close() error {
	if s.backends == nil {
		return nil
	}
	return s.backends.Close()
}

// where describes the target for status output.
func (s *openSession) where() string {
	if s.file != "" {
		return s.file
	}
	return "user " + s.Configuration().UserID
}

// layoutCommand creates the layout command tree.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show, edit and validate dashboard layouts",
		Long: `Show, edit and validate dashboard layouts.

Commands work on a user's saved layout (--user, default "local") in the
configured repository, or on a layout file (--file). Every edit compacts
the layout so that no component floats above empty rows.`,
	}

	cmd.AddCommand(c.layoutDefaultCommand())
	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutCompactCommand())
	cmd.AddCommand(c.layoutPlaceCommand())
	cmd.AddCommand(c.layoutMoveCommand())
	cmd.AddCommand(c.layoutResizeCommand())
	cmd.AddCommand(c.layoutRemoveCommand())
	cmd.AddCommand(c.layoutLockCommand(true))
	cmd.AddCommand(c.layoutLockCommand(false))
	cmd.AddCommand(c.layoutCheckCommand())
	cmd.AddCommand(c.layoutPreviewCommand())

	return cmd
}

func (c *CLI) layoutDefaultCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print or write the built-in default layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := layout.Default()
			if output == "" {
				data, err := layout.Encode(cfg, layout.FormatYAML)
				if err != nil {
					return err
				}
				_, err = stdout.Write(data)
				return err
			}
			if err := layout.WriteFile(output, cfg); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Default layout written")
			printFile(output)
			printNextStep("Preview", "dashlayout layout preview -f "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .yaml); default: YAML on stdout")
	return cmd
}

func (c *CLI) layoutShowCommand() *cobra.Command {
	var t layoutTarget
	var noGrid bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a layout as a table and a grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), t)
			if err != nil {
				return err
			}
			defer s.Close()

			cfg := s.Configuration()
			fmt.Fprintln(stdout, StyleTitle.Render("Layout")+" "+StyleDim.Render(s.where()))
			renderItemTable(stdout, cfg)
			if !noGrid {
				view := gridView{Columns: c.Config.Grid.Columns, Width: detectTerminalWidth(stdout)}
				fmt.Fprintln(stdout, view.Render(cfg.GridItems()))
			}
			printLayoutStats(len(cfg.Items), grid.MaxBottom(cfg.GridItems()), cfg.IsLocked)
			return nil
		},
	}
	t.register(cmd)
	cmd.Flags().BoolVar(&noGrid, "no-grid", false, "omit the grid drawing")
	return cmd
}

// runEdit opens a session, applies edit, saves and reports.
func (c *CLI) runEdit(ctx context.Context, t layoutTarget, edit func(*openSession) error) error {
	s, err := c.openSession(ctx, t)
	if err != nil {
		return err
	}
	defer s.Close()

	prog := newProgress(c.Logger)
	if err := edit(s); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return fmt.Errorf("write %s: %w", s.file, err)
	}

	if last, ok := s.announcer.Last(); ok {
		printSuccess("%s", last.Message)
	}
	cfg := s.Configuration()
	printDetail("Saved to %s", s.where())
	printLayoutStats(len(cfg.Items), grid.MaxBottom(cfg.GridItems()), cfg.IsLocked)
	prog.done("layout updated")
	return nil
}

func (c *CLI) layoutCompactCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Move every component up to close vertical gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				changed, err := s.Compact(cmd.Context())
				if err != nil {
					return err
				}
				if changed {
					printSuccess("Compacted layout")
				} else {
					printInfo("Layout is already compact")
				}
				return nil
			})
		},
	}
	t.register(cmd)
	return cmd
}

func (c *CLI) layoutPlaceCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:       "place TYPE",
		Short:     "Add a component at the first free cell",
		Long:      "Add a component of TYPE (metrics, table, image, insights, file_download) at the first free cell.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: componentTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := layout.ParseComponentType(args[0])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				_, err := s.AddComponent(cmd.Context(), ct)
				return err
			})
		},
	}
	t.register(cmd)
	return cmd
}

func componentTypeNames() []string {
	names := make([]string, len(layout.ComponentTypes))
	for i, ct := range layout.ComponentTypes {
		names[i] = string(ct)
	}
	return names
}

// parseCells parses grid coordinates or sizes given as arguments.
func parseCells(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "not a grid cell count: %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func (c *CLI) layoutMoveCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "move ID X Y",
		Short: "Drag a component to a grid cell",
		Long: `Drag a component towards column X, row Y. If the cell is taken the
component goes to the first free cell after it, then the layout is
compacted.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells(args[1], args[2])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				return dragTo(cmd.Context(), s.Session, args[0], cells[0], cells[1])
			})
		},
	}
	t.register(cmd)
	return cmd
}

// dragTo moves item id to (x, y) through a pointer drag of the matching
// pixel distance.
func dragTo(ctx context.Context, s *dashboard.Session, id string, x, y int) error {
	cfg := s.Configuration()
	i := cfg.Find(id)
	if i < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "no component %q", id)
	}
	if err := s.BeginDrag(id); err != nil {
		return err
	}
	m := s.Engine().Metrics()
	dx := float64(x-cfg.Items[i].X) * m.ColumnWidth
	dy := float64(y-cfg.Items[i].Y) * m.Config.RowHeight
	if _, err := s.DragMove(dx, dy); err != nil {
		s.CancelDrag()
		return err
	}
	_, err := s.EndDrag(ctx)
	return err
}

func (c *CLI) layoutResizeCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "resize ID W H",
		Short: "Resize a component",
		Long: `Resize a component to W columns by H rows. The size is clamped to the
component's limits and the grid width; a size that would overlap another
component is rejected.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := parseCells(args[1], args[2])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				return resizeTo(cmd.Context(), s.Session, args[0], cells[0], cells[1])
			})
		},
	}
	t.register(cmd)
	return cmd
}

func resizeTo(ctx context.Context, s *dashboard.Session, id string, w, h int) error {
	cfg := s.Configuration()
	i := cfg.Find(id)
	if i < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "no component %q", id)
	}
	if err := s.BeginResize(id); err != nil {
		return err
	}
	m := s.Engine().Metrics()
	dw := float64(w-cfg.Items[i].W) * m.ColumnWidth
	dh := float64(h-cfg.Items[i].H) * m.Config.RowHeight
	_, accepted, err := s.ResizeMove(dw, dh)
	if err != nil || !accepted {
		s.CancelDrag()
		if err == nil {
			err = errors.New(errors.ErrCodeCollision, "%s cannot be %dx%d without overlapping another component", id, w, h)
		}
		return err
	}
	_, err = s.EndResize(ctx)
	return err
}

func (c *CLI) layoutRemoveCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				return s.RemoveComponent(cmd.Context(), args[0])
			})
		},
	}
	t.register(cmd)
	return cmd
}

func (c *CLI) layoutLockCommand(lock bool) *cobra.Command {
	var t layoutTarget
	use, short := "lock", "Lock the layout against edits"
	if !lock {
		use, short = "unlock", "Allow edits to the layout again"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), t, func(s *openSession) error {
				return s.SetLocked(cmd.Context(), lock)
			})
		},
	}
	t.register(cmd)
	return cmd
}

func (c *CLI) layoutCheckCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a layout and list overlapping components",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context(), t)
			if err != nil {
				return err
			}
			defer s.Close()
			return checkLayout(s.Configuration(), c.Config.Grid, s.where())
		},
	}
	t.register(cmd)
	return cmd
}

func checkLayout(cfg layout.Configuration, g grid.Config, where string) error {
	collisions := grid.DetectCollisions(cfg.GridItems())
	for _, col := range collisions {
		printWarning("%s overlaps %s", col.A, col.B)
	}
	if compact := grid.CompactLayout(cfg.GridItems()); compact.Changed {
		printInfo("Layout has vertical gaps; run %s", styleCommand.Render("dashlayout layout compact"))
	}

	if err := cfg.ValidateItems(g); err != nil {
		printError("%s is invalid: %s", where, errors.UserMessage(err))
		return err
	}
	printSuccess("%s is valid: %s", where, cfg.Summary())
	return nil
}

func (c *CLI) layoutPreviewCommand() *cobra.Command {
	var t layoutTarget
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactively move and resize components",
		Long: `Interactively move and resize components in the terminal.

  tab / shift+tab   select component
  arrows            move the selection one cell
  shift+arrows      resize the selection by one cell
  c                 compact
  l                 lock or unlock
  q                 quit

Each move or resize is committed immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New(errors.ErrCodeUnsupported, "preview needs an interactive terminal; use 'layout show'")
			}
			s, err := c.openSession(cmd.Context(), t)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := runPreview(cmd.Context(), s, c.Config.Grid.Columns); err != nil {
				return err
			}
			return s.save()
		},
	}
	t.register(cmd)
	return cmd
}
