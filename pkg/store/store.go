// Package store provides the keyed byte store behind persisted UI state.
//
// Panel widths, the sidebar width and (optionally) whole layout documents
// are written as small JSON values under well-known keys. The [Store]
// interface is deliberately narrow so that the same callers run against:
//   - [FileStore]: one JSON entry per key on disk, for the CLI
//   - [MemoryStore]: process-local map, for tests and the HTTP server
//   - [RedisStore]: shared state for multi-instance deployments
//   - [NullStore]: persistence disabled
//
// # Keys
//
// Keys are produced by a [Keyer]. The default keyer returns the bare keys
// the dashboard frontend has always used ("panelWidths", "sidebarWidth");
// [ScopedKeyer] prefixes them per window or per user:
//
//	keys := store.NewScopedKeyer(store.NewDefaultKeyer(), "window:main:")
//	st.Set(ctx, keys.PanelWidthsKey(), data, 0)
package store

import (
	"context"
	"time"
)

// Store is a keyed byte store with optional expiry.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates storage keys for persisted dashboard state.
type Keyer interface {
	PanelWidthsKey() string
	SidebarWidthKey() string
	LayoutKey(userID string) string
}

// Well-known keys.
const (
	PanelWidthsKey  = "panelWidths"
	SidebarWidthKey = "sidebarWidth"
	layoutPrefix    = "layout:"
)

// DefaultKeyer returns the unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the unscoped keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PanelWidthsKey() string  { return PanelWidthsKey }
func (DefaultKeyer) SidebarWidthKey() string { return SidebarWidthKey }

// LayoutKey hashes the user ID so arbitrary IDs produce safe keys.
func (DefaultKeyer) LayoutKey(userID string) string {
	return layoutPrefix + Hash([]byte(userID))
}
