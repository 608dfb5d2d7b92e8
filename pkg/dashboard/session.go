// Package dashboard runs an interactive layout session for one dashboard:
// adding and removing components, pointer-driven drag and resize, and
// committing the result.
//
// A drag is three phases. Begin captures the committed layout as a
// baseline. Each move recomputes a candidate layout from that baseline
// plus the cumulative pointer delta, so no error accumulates across moves.
// End compacts the candidate, commits it, persists it and publishes
// [events.TopicLayoutChanged]; Cancel drops the candidate.
//
// A Session is owned by one goroutine at a time and is not safe for
// concurrent use.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vantagedata/dashlayout/pkg/a11y"
	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
	"github.com/vantagedata/dashlayout/pkg/observability"
)

// DefaultContainerWidth is used when no container width is known yet.
const DefaultContainerWidth = 1220.0

// Options configures a Session. Every field is optional.
type Options struct {
	Grid           grid.Config
	ContainerWidth float64
	// Repository persists commits. Nil keeps the session in memory.
	Repository layout.Repository
	Bus        *events.Bus
	Announcer  a11y.Announcer
	Logger     *log.Logger
}

func (o *Options) setDefaults() {
	if o.Grid.Columns == 0 {
		o.Grid = grid.DefaultConfig()
	}
	if o.ContainerWidth <= 0 {
		o.ContainerWidth = DefaultContainerWidth
	}
	if o.Announcer == nil {
		o.Announcer = a11y.Nop{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutChanged is the payload of [events.TopicLayoutChanged].
type LayoutChanged struct {
	UserID string        `json:"userId"`
	Op     string        `json:"op"`
	Items  []layout.Item `json:"items"`
}

type opKind int

const (
	opDrag opKind = iota + 1
	opResize
)

func (k opKind) String() string {
	if k == opResize {
		return "resize"
	}
	return "drag"
}

// operation is an in-progress drag or resize.
type operation struct {
	kind      opKind
	id        string
	baseline  []grid.Item
	base      grid.Item
	candidate []grid.Item
}

// Session owns one dashboard's committed configuration and any
// in-progress pointer operation.
type Session struct {
	opts   Options
	engine *grid.Engine
	cfg    layout.Configuration
	op     *operation
}

// NewSession starts a session on cfg.
func NewSession(cfg layout.Configuration, opts Options) *Session {
	opts.setDefaults()
	return &Session{
		opts:   opts,
		engine: grid.NewEngine(opts.Grid, opts.ContainerWidth),
		cfg:    cfg,
	}
}

// Open loads the user's layout from the repository, falling back to the
// default layout.
func Open(ctx context.Context, userID string, opts Options) (*Session, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return nil, err
	}
	cfg := layout.Default()
	cfg.UserID = userID
	if opts.Repository != nil {
		var err error
		if cfg, err = layout.LoadOrDefault(ctx, opts.Repository, userID); err != nil {
			return nil, err
		}
	}
	return NewSession(cfg, opts), nil
}

// Configuration returns the last committed configuration.
func (s *Session) Configuration() layout.Configuration {
	cfg := s.cfg
	cfg.Items = slices.Clone(s.cfg.Items)
	return cfg
}

// Items returns the geometry on screen: the candidate layout while an
// operation is in progress, the committed layout otherwise.
func (s *Session) Items() []grid.Item {
	if s.op != nil {
		return slices.Clone(s.op.candidate)
	}
	return s.cfg.GridItems()
}

// Engine exposes the grid engine for pixel conversions.
func (s *Session) Engine() *grid.Engine { return s.engine }

// Resize updates the container width. Grid positions are unaffected.
func (s *Session) Resize(containerWidth float64) {
	s.engine.Resize(containerWidth)
}

// Active reports whether a drag or resize is in progress.
func (s *Session) Active() bool { return s.op != nil }

func (s *Session) checkUnlocked() error {
	if s.cfg.IsLocked {
		return errors.New(errors.ErrCodeLayoutLocked, "layout is locked")
	}
	return nil
}

// SetLocked locks or unlocks the layout and persists the change. Locking
// cancels an in-progress operation.
func (s *Session) SetLocked(ctx context.Context, locked bool) error {
	if s.cfg.IsLocked == locked {
		return nil
	}
	if locked && s.op != nil {
		s.CancelDrag()
	}
	s.cfg.IsLocked = locked
	if err := s.persist(ctx); err != nil {
		return err
	}
	if locked {
		s.opts.Announcer.Announce("Layout locked", a11y.Polite)
	} else {
		s.opts.Announcer.Announce("Layout unlocked", a11y.Polite)
	}
	return nil
}

// AddComponent places a new instance of t at the first free cell and
// commits the layout.
func (s *Session) AddComponent(ctx context.Context, t layout.ComponentType) (layout.Item, error) {
	if err := s.checkUnlocked(); err != nil {
		return layout.Item{}, err
	}
	if _, err := layout.ParseComponentType(string(t)); err != nil {
		return layout.Item{}, err
	}
	if s.op != nil {
		s.CancelDrag()
	}

	it := layout.NewItem(t, s.cfg.NextInstanceIdx(t))
	existing := s.cfg.GridItems()
	pos := grid.ResolvePosition(s.engine.Config(), it.Item, 0, 0, existing)
	observability.Layout().OnPositionResolved(ctx, it.ID, pos.Fallback)
	it.X, it.Y = pos.X, pos.Y

	s.cfg.Items = append(slices.Clone(s.cfg.Items), it)
	err := s.commit(ctx, "add", s.cfg.GridItems())
	s.opts.Announcer.Announce(fmt.Sprintf("Added %s at column %d, row %d", it.ID, it.X+1, it.Y+1), a11y.Polite)
	return it, err
}

// RemoveComponent deletes the item id and commits the layout.
func (s *Session) RemoveComponent(ctx context.Context, id string) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	idx := s.cfg.Find(id)
	if idx < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "no component %q", id)
	}
	if s.op != nil {
		s.CancelDrag()
	}

	s.cfg.Items = slices.Delete(slices.Clone(s.cfg.Items), idx, idx+1)
	err := s.commit(ctx, "remove", s.cfg.GridItems())
	s.opts.Announcer.Announce("Removed "+id, a11y.Polite)
	return err
}

func (s *Session) begin(kind opKind, id string) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	items := s.cfg.GridItems()
	idx := grid.Find(items, id)
	if idx < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "no component %q", id)
	}
	if items[idx].Static {
		return errors.New(errors.ErrCodeInvalidInput, "component %q is static", id)
	}
	s.op = &operation{
		kind:      kind,
		id:        id,
		baseline:  items,
		base:      items[idx],
		candidate: slices.Clone(items),
	}
	return nil
}

// BeginDrag starts moving item id. Any previous operation is discarded.
func (s *Session) BeginDrag(id string) error {
	return s.begin(opDrag, id)
}

// BeginResize starts resizing item id. Any previous operation is
// discarded.
func (s *Session) BeginResize(id string) error {
	return s.begin(opResize, id)
}

// DragMove computes the candidate layout for a cumulative pointer delta in
// pixels since BeginDrag. The dragged item snaps to the nearest free cell.
func (s *Session) DragMove(dx, dy float64) ([]grid.Item, error) {
	if s.op == nil || s.op.kind != opDrag {
		return nil, errors.New(errors.ErrCodeNoDrag, "no drag in progress")
	}
	gx, gy := s.engine.Metrics().PixelDeltaToGrid(dx, dy)
	cfg := s.engine.Config()
	pos := grid.ResolvePosition(cfg, s.op.base, s.op.base.X+gx, s.op.base.Y+gy, s.op.baseline)
	observability.Layout().OnPositionResolved(context.Background(), s.op.id, pos.Fallback)

	candidate := slices.Clone(s.op.baseline)
	idx := grid.Find(candidate, s.op.id)
	candidate[idx].X, candidate[idx].Y = pos.X, pos.Y
	s.op.candidate = candidate
	return slices.Clone(candidate), nil
}

// ResizeMove computes the candidate layout for a cumulative size delta in
// pixels since BeginResize. A size that would collide is rejected and the
// last accepted candidate is kept; accepted reports which happened.
func (s *Session) ResizeMove(dw, dh float64) (items []grid.Item, accepted bool, err error) {
	if s.op == nil || s.op.kind != opResize {
		return nil, false, errors.New(errors.ErrCodeNoDrag, "no resize in progress")
	}
	gw, gh := s.engine.Metrics().PixelDeltaToGrid(dw, dh)
	out, ok := grid.ResizeItem(s.engine.Config(), s.op.baseline, s.op.id, s.op.base.W+gw, s.op.base.H+gh)
	if ok {
		s.op.candidate = out
	}
	return slices.Clone(s.op.candidate), ok, nil
}

// EndDrag commits the candidate layout of the current drag.
func (s *Session) EndDrag(ctx context.Context) (layout.Configuration, error) {
	return s.end(ctx, opDrag)
}

// EndResize commits the candidate layout of the current resize.
func (s *Session) EndResize(ctx context.Context) (layout.Configuration, error) {
	return s.end(ctx, opResize)
}

func (s *Session) end(ctx context.Context, kind opKind) (layout.Configuration, error) {
	if s.op == nil || s.op.kind != kind {
		return s.Configuration(), errors.New(errors.ErrCodeNoDrag, "no %s in progress", kind)
	}
	op := s.op
	s.op = nil

	err := s.commit(ctx, kind.String(), op.candidate)
	if i := s.cfg.Find(op.id); i >= 0 {
		it := s.cfg.Items[i]
		if kind == opDrag {
			s.opts.Announcer.Announce(fmt.Sprintf("Moved %s to column %d, row %d", it.ID, it.X+1, it.Y+1), a11y.Polite)
		} else {
			s.opts.Announcer.Announce(fmt.Sprintf("Resized %s to %d by %d", it.ID, it.W, it.H), a11y.Polite)
		}
	}
	return s.Configuration(), err
}

// CancelDrag discards the in-progress drag or resize.
func (s *Session) CancelDrag() {
	if s.op == nil {
		return
	}
	s.opts.Announcer.Announce(fmt.Sprintf("Cancelled %s of %s", s.op.kind, s.op.id), a11y.Polite)
	s.op = nil
}

// Compact compacts the committed layout and commits the result if
// anything moved.
func (s *Session) Compact(ctx context.Context) (bool, error) {
	if err := s.checkUnlocked(); err != nil {
		return false, err
	}
	before := s.cfg.GridItems()
	if err := s.commit(ctx, "compact", before); err != nil {
		return false, err
	}
	after := s.cfg.GridItems()
	return !slices.Equal(before, after), nil
}

// commit compacts items into the configuration, persists it and publishes
// the change. The in-memory commit stands even when persistence fails.
func (s *Session) commit(ctx context.Context, op string, items []grid.Item) error {
	start := time.Now()
	res := s.engine.Compact(items)
	observability.Layout().OnCompact(ctx, len(items), res.Changed, time.Since(start))

	s.cfg = s.cfg.WithGrid(res.Items)
	err := s.persist(ctx)
	observability.Layout().OnCommit(ctx, op, len(s.cfg.Items), err)

	s.opts.Bus.Publish(events.TopicLayoutChanged, LayoutChanged{
		UserID: s.cfg.UserID,
		Op:     op,
		Items:  slices.Clone(s.cfg.Items),
	})
	s.opts.Logger.Debug("layout committed", "op", op, "items", len(s.cfg.Items), "compacted", res.Changed)
	return err
}

func (s *Session) persist(ctx context.Context) error {
	if s.opts.Repository == nil {
		return nil
	}
	if len(s.cfg.Items) == 0 {
		// Repositories only hold non-empty layouts.
		return s.opts.Repository.Delete(ctx, s.cfg.UserID)
	}
	saved, err := s.opts.Repository.Save(ctx, s.cfg)
	if err != nil {
		s.opts.Logger.Warn("layout not persisted", "user", s.cfg.UserID, "error", err)
		return err
	}
	s.cfg.ID, s.cfg.CreatedAt, s.cfg.UpdatedAt = saved.ID, saved.CreatedAt, saved.UpdatedAt
	return nil
}
