package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
)

var (
	previewDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PreviewModel - Interactive layout editing
// =============================================================================

// PreviewModel is the bubbletea model for "layout preview". Every key that
// changes the layout goes through the session, so edits are compacted,
// persisted and announced exactly as they are from the other commands.
type PreviewModel struct {
	ctx     context.Context
	session *openSession
	columns int
	width   int

	Selected int
	Status   string
	Err      error
}

// NewPreviewModel creates a preview of the session's layout.
func NewPreviewModel(ctx context.Context, s *openSession, columns int) PreviewModel {
	return PreviewModel{
		ctx:     ctx,
		session: s,
		columns: columns,
		width:   defaultTermWidth,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// selectedID returns the ID of the selected component, or "".
func (m PreviewModel) selectedID() string {
	items := m.session.Configuration().Items
	if len(items) == 0 {
		return ""
	}
	return items[m.Selected%len(items)].ID
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m PreviewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	n := len(m.session.Configuration().Items)
	id := m.selectedID()

	var err error
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if n > 0 {
			m.Selected = (m.Selected + 1) % n
		}
		return m, nil
	case "shift+tab":
		if n > 0 {
			m.Selected = (m.Selected + n - 1) % n
		}
		return m, nil
	case "up", "down", "left", "right":
		dx, dy := direction(key)
		err = m.nudge(id, dx, dy, false)
	case "shift+up", "shift+down", "shift+left", "shift+right":
		dx, dy := direction(strings.TrimPrefix(key, "shift+"))
		err = m.nudge(id, dx, dy, true)
	case "c":
		_, err = m.session.Compact(m.ctx)
	case "l":
		err = m.session.SetLocked(m.ctx, !m.session.Configuration().IsLocked)
	default:
		return m, nil
	}

	m.Err = err
	if err == nil {
		if last, ok := m.session.announcer.Last(); ok {
			m.Status = last.Message
		}
	}
	return m, nil
}

func direction(key string) (dx, dy int) {
	switch key {
	case "up":
		return 0, -1
	case "down":
		return 0, 1
	case "left":
		return -1, 0
	case "right":
		return 1, 0
	}
	return 0, 0
}

// nudge moves or resizes component id by one cell.
func (m PreviewModel) nudge(id string, dx, dy int, resize bool) error {
	if id == "" {
		return errors.New(errors.ErrCodeItemNotFound, "layout is empty")
	}
	cfg := m.session.Configuration()
	it := cfg.Items[cfg.Find(id)]
	if resize {
		return resizeTo(m.ctx, m.session.Session, id, it.W+dx, it.H+dy)
	}
	return dragTo(m.ctx, m.session.Session, id, it.X+dx, it.Y+dy)
}

func (m PreviewModel) View() string {
	cfg := m.session.Configuration()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Layout Preview"))
	b.WriteString(" ")
	b.WriteString(previewDimStyle.Render(m.session.where()))
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("tab select  ←↑↓→ move  shift+←↑↓→ resize  c compact  l lock  q quit"))
	b.WriteString("\n\n")

	view := gridView{Columns: m.columns, Width: m.width, Selected: m.selectedID()}
	b.WriteString(view.Render(cfg.GridItems()))
	b.WriteString("\n")

	lock := styleUnlocked.Render(iconUnlocked)
	if cfg.IsLocked {
		lock = styleLocked.Render(iconLocked)
	}
	b.WriteString(previewDimStyle.Render(fmt.Sprintf("%s · %d components · %d rows · ",
		m.selectedID(), len(cfg.Items), grid.MaxBottom(cfg.GridItems()))))
	b.WriteString(lock)
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(previewErrorStyle.Render(errors.UserMessage(m.Err)))
	case m.Status != "":
		b.WriteString(StyleSuccess.Render(m.Status))
	}
	b.WriteString("\n")
	return b.String()
}

// runPreview runs the preview until the user quits or ctx is cancelled.
func runPreview(ctx context.Context, s *openSession, columns int) error {
	p := tea.NewProgram(NewPreviewModel(ctx, s, columns), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
