// Package layout models a user's saved dashboard: which components are on
// it and where each sits on the grid.
//
// A [Configuration] is persisted through a [Repository]. Three backends are
// provided: SQLite for the desktop app, MongoDB for hosted deployments and
// any [store.Store] for lightweight setups. All of them validate before
// writing and upsert one configuration per user.
//
// [store.Store]: github.com/vantagedata/dashlayout/pkg/store.Store
package layout

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
)

// ComponentType is the kind of dashboard component an item hosts.
type ComponentType string

// Supported component types.
const (
	TypeMetrics      ComponentType = "metrics"
	TypeTable        ComponentType = "table"
	TypeImage        ComponentType = "image"
	TypeInsights     ComponentType = "insights"
	TypeFileDownload ComponentType = "file_download"
)

// ComponentTypes lists every supported type in display order.
var ComponentTypes = []ComponentType{TypeMetrics, TypeTable, TypeImage, TypeInsights, TypeFileDownload}

// ParseComponentType validates a component type name.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(s)
	if !slices.Contains(ComponentTypes, t) {
		return "", errors.New(errors.ErrCodeInvalidItem, "unknown component type %q", s)
	}
	return t, nil
}

// Item is a grid item hosting one component instance. Its ID is
// "<type>-<instanceIdx>".
type Item struct {
	grid.Item   `yaml:",inline" bson:",inline"`
	Type        ComponentType `json:"type" yaml:"type" bson:"type"`
	InstanceIdx int           `json:"instanceIdx" yaml:"instanceIdx" bson:"instance_idx"`
}

// ComponentID formats the item ID for a component instance.
func ComponentID(t ComponentType, idx int) string {
	return string(t) + "-" + strconv.Itoa(idx)
}

// Configuration is one user's saved dashboard. Timestamps are Unix
// milliseconds.
type Configuration struct {
	ID        string `json:"id" yaml:"id,omitempty" bson:"_id"`
	UserID    string `json:"userId" yaml:"userId,omitempty" bson:"user_id"`
	IsLocked  bool   `json:"isLocked" yaml:"isLocked" bson:"is_locked"`
	Items     []Item `json:"items" yaml:"items" bson:"items"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt int64  `json:"updatedAt" yaml:"updatedAt,omitempty" bson:"updated_at"`
}

// DefaultID is the ID of the built-in layout.
const DefaultID = "default"

// sizes holds the initial size and minimum size of each component type.
var sizes = map[ComponentType]grid.Item{
	TypeMetrics:      {W: 8, H: 4, MinW: 4, MinH: 2},
	TypeTable:        {W: 16, H: 8, MinW: 8, MinH: 6},
	TypeImage:        {W: 8, H: 6, MinW: 4, MinH: 4},
	TypeInsights:     {W: 8, H: 6, MinW: 4, MinH: 4},
	TypeFileDownload: {W: 24, H: 6, MinW: 8, MinH: 4},
}

// NewItem returns an unplaced item for a component instance with the
// type's default size.
func NewItem(t ComponentType, idx int) Item {
	g := sizes[t]
	if g.W == 0 {
		g = grid.Item{W: 4, H: 4, MinW: 2, MinH: 2}
	}
	g.ID = ComponentID(t, idx)
	return Item{Item: g, Type: t, InstanceIdx: idx}
}

func placed(t ComponentType, x, y int) Item {
	it := NewItem(t, 0)
	it.X, it.Y = x, y
	return it
}

// Default returns the built-in layout: key metrics and the data table on
// the left, images and insights on the right and file downloads across
// the bottom.
func Default() Configuration {
	return Configuration{
		ID: DefaultID,
		Items: []Item{
			placed(TypeMetrics, 0, 0),
			placed(TypeTable, 0, 4),
			placed(TypeImage, 16, 0),
			placed(TypeInsights, 16, 6),
			placed(TypeFileDownload, 0, 12),
		},
	}
}

// GridItems returns the grid geometry of every item.
func (c Configuration) GridItems() []grid.Item {
	out := make([]grid.Item, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Item
	}
	return out
}

// WithGrid returns a copy of c whose item geometry is replaced by the grid
// items with matching IDs. Items without a match are kept as they are.
func (c Configuration) WithGrid(items []grid.Item) Configuration {
	out := c
	out.Items = slices.Clone(c.Items)
	for i := range out.Items {
		if j := grid.Find(items, out.Items[i].ID); j >= 0 {
			out.Items[i].Item = items[j]
		}
	}
	return out
}

// Find returns the index of the item with the given ID, or -1.
func (c Configuration) Find(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// NextInstanceIdx returns the lowest instance index not yet used by a
// component of type t.
func (c Configuration) NextInstanceIdx(t ComponentType) int {
	used := make(map[int]bool)
	for _, it := range c.Items {
		if it.Type == t {
			used[it.InstanceIdx] = true
		}
	}
	idx := 0
	for used[idx] {
		idx++
	}
	return idx
}

// Validate checks the configuration against a grid.
func (c Configuration) Validate(cfg grid.Config) error {
	if err := errors.ValidateUserID(c.UserID); err != nil {
		return err
	}
	return c.ValidateItems(cfg)
}

// ValidateItems checks everything but the owner.
func (c Configuration) ValidateItems(cfg grid.Config) error {
	if len(c.Items) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout must contain at least one item")
	}
	for _, it := range c.Items {
		if _, err := ParseComponentType(string(it.Type)); err != nil {
			return err
		}
		if err := errors.ValidateComponentID(it.ID); err != nil {
			return err
		}
		if want := ComponentID(it.Type, it.InstanceIdx); it.ID != want {
			return errors.New(errors.ErrCodeInvalidItem, "item %q does not match its component %s", it.ID, want)
		}
	}
	return grid.Validate(cfg, c.GridItems())
}

// Summary is a one-line description such as "5 items, 18 rows, unlocked".
func (c Configuration) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d items", len(c.Items))
	if len(c.Items) > 0 {
		fmt.Fprintf(&b, ", %d rows", grid.MaxBottom(c.GridItems()))
	}
	if c.IsLocked {
		b.WriteString(", locked")
	} else {
		b.WriteString(", unlocked")
	}
	return b.String()
}
