// Package observability provides hooks for metrics, tracing, and logging.
//
// Layout, store and HTTP code emit events through small hook interfaces
// without depending on a concrete backend. Consumers register hooks once
// at startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call the registered hooks:
//
//	start := time.Now()
//	res := grid.CompactLayout(items)
//	observability.Layout().OnCompact(ctx, len(items), res.Changed, time.Since(start))
//
// The defaults are no-ops, so nothing needs to be registered for tests or
// the CLI.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from dashboard layout sessions.
type LayoutHooks interface {
	// OnPositionResolved records a placement; fallback reports that the
	// item was appended below every other item.
	OnPositionResolved(ctx context.Context, itemID string, fallback bool)

	// OnCompact records a compaction pass.
	OnCompact(ctx context.Context, itemCount int, changed bool, duration time.Duration)

	// OnCommit records the end of a drag, resize, add or remove operation.
	OnCommit(ctx context.Context, op string, itemCount int, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from keyed store operations. keyType is the
// unscoped key name, e.g. "panelWidths" or "layout".
type StoreHooks interface {
	OnStoreHit(ctx context.Context, keyType string)
	OnStoreMiss(ctx context.Context, keyType string)
	OnStoreSet(ctx context.Context, keyType string, size int)
	OnStoreError(ctx context.Context, op, keyType string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched pattern.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPositionResolved(context.Context, string, bool)    {}
func (NoopLayoutHooks) OnCompact(context.Context, int, bool, time.Duration) {}
func (NoopLayoutHooks) OnCommit(context.Context, string, int, error)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)                  {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)                 {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int)             {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
