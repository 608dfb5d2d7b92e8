package panels

import (
	"context"
	"encoding/json"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vantagedata/dashlayout/pkg/store"
)

// saved is the persisted subset of Widths. The center width is always
// derived from the current window width.
type saved struct {
	Left  *float64 `json:"left"`
	Right *float64 `json:"right"`
}

// Persister saves and restores panel widths in a keyed store.
//
// Persistence is best effort: a failed write returns false and a missing
// or malformed entry loads as the defaults. Neither is ever an error.
type Persister struct {
	Store       store.Store
	Keyer       store.Keyer
	Constraints Constraints
	Logger      *log.Logger
}

// NewPersister creates a persister. A nil store disables persistence, a
// nil keyer uses the unscoped keys and a nil logger discards output.
func NewPersister(s store.Store, keyer store.Keyer, logger *log.Logger) *Persister {
	if s == nil {
		s = store.NewNullStore()
	}
	if keyer == nil {
		keyer = store.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Persister{
		Store:       s,
		Keyer:       keyer,
		Constraints: DefaultConstraints(),
		Logger:      logger,
	}
}

// SavePanelWidths stores the left and right widths. It reports whether the
// write succeeded.
func (p *Persister) SavePanelWidths(ctx context.Context, w Widths) bool {
	left, right := w.Left, w.Right
	data, err := json.Marshal(saved{Left: &left, Right: &right})
	if err != nil {
		p.Logger.Debug("encode panel widths", "error", err)
		return false
	}
	if err := p.Store.Set(ctx, p.Keyer.PanelWidthsKey(), data, 0); err != nil {
		p.Logger.Warn("panel widths not persisted", "error", err)
		return false
	}
	return true
}

// LoadPanelWidths restores saved widths and re-clamps them against the
// current totalWidth. Missing or malformed state yields the defaults.
func (p *Persister) LoadPanelWidths(ctx context.Context, totalWidth float64) Widths {
	left, right, ok := p.loadSaved(ctx)
	if !ok {
		return p.Constraints.Calculate(totalWidth, DefaultLeft, DefaultRight)
	}
	return p.Constraints.Calculate(totalWidth, left, right)
}

func (p *Persister) loadSaved(ctx context.Context) (left, right float64, ok bool) {
	data, hit, err := p.Store.Get(ctx, p.Keyer.PanelWidthsKey())
	if err != nil {
		p.Logger.Debug("read panel widths", "error", err)
		return 0, 0, false
	}
	if !hit {
		return 0, 0, false
	}

	var s saved
	if err := json.Unmarshal(data, &s); err != nil {
		p.Logger.Debug("ignoring malformed panel widths", "error", err)
		return 0, 0, false
	}
	if s.Left == nil || s.Right == nil || !finite(*s.Left) || !finite(*s.Right) {
		p.Logger.Debug("ignoring incomplete panel widths", "data", string(data))
		return 0, 0, false
	}
	return *s.Left, *s.Right, true
}

// ClearPanelWidths removes the saved widths.
func (p *Persister) ClearPanelWidths(ctx context.Context) bool {
	if err := p.Store.Delete(ctx, p.Keyer.PanelWidthsKey()); err != nil {
		p.Logger.Warn("panel widths not cleared", "error", err)
		return false
	}
	return true
}

// SaveSidebarWidth stores the sidebar width as a bare JSON number.
func (p *Persister) SaveSidebarWidth(ctx context.Context, width float64) bool {
	if !finite(width) {
		return false
	}
	data, _ := json.Marshal(width)
	if err := p.Store.Set(ctx, p.Keyer.SidebarWidthKey(), data, 0); err != nil {
		p.Logger.Warn("sidebar width not persisted", "error", err)
		return false
	}
	return true
}

// LoadSidebarWidth returns the saved sidebar width. A value outside
// [LeftMin, LeftMax] is treated as absent.
func (p *Persister) LoadSidebarWidth(ctx context.Context) (float64, bool) {
	data, hit, err := p.Store.Get(ctx, p.Keyer.SidebarWidthKey())
	if err != nil || !hit {
		return 0, false
	}
	var width float64
	if err := json.Unmarshal(data, &width); err != nil {
		p.Logger.Debug("ignoring malformed sidebar width", "error", err)
		return 0, false
	}
	if width < p.Constraints.LeftMin || width > p.Constraints.LeftMax {
		return 0, false
	}
	return width, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Changed is the payload of [events.TopicPanelsChanged].
type Changed struct {
	Scope   string   `json:"scope"`
	Widths  Widths   `json:"widths"`
	Sidebar *float64 `json:"sidebar,omitempty"`
}
