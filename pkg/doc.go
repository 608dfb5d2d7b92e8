// Package pkg provides the core libraries for dashlayout, the layout engine
// behind a drag-and-drop analytics dashboard.
//
// # Overview
//
// A dashboard is a 24-column grid of components (metrics, tables, images,
// insights, file downloads) next to two resizable side panels. The pkg
// directory is organized into three areas:
//
//  1. Geometry - [grid] and [panels], pure functions over positions and widths
//  2. Domain - [layout], [dashboard] and [a11y], the user's saved dashboards
//     and the editing session around them
//  3. Infrastructure - [store], [events], [observability], [config],
//     [errors] and [buildinfo]
//
// # Architecture
//
// A pointer gesture flows through the packages like this:
//
//	pointer delta (px)
//	       ↓
//	  [grid] Metrics (px → cells)
//	       ↓
//	  [grid] ResolvePosition / ResizeItem (collision-free candidate)
//	       ↓
//	  [dashboard] Session commit (compact, validate, persist)
//	       ↓
//	  [layout] Repository (SQLite, MongoDB or a [store] backend)
//	       ↓
//	  [events] Bus → [a11y] announcements, HTTP server log, observers
//
// # Quick Start
//
// Open a user's dashboard, add a component and drag it:
//
//	repo, _ := layout.OpenSQLite(ctx, "layouts.db", grid.DefaultConfig(), logger)
//	s, _ := dashboard.Open(ctx, "alice", dashboard.Options{Repository: repo})
//
//	it, _ := s.AddComponent(ctx, layout.TypeMetrics)
//	_ = s.BeginDrag(it.ID)
//	_, _ = s.DragMove(120, 0) // pixels since the drag started
//	cfg, _ := s.EndDrag(ctx)   // compacted and saved
//
// Allocate the side panels for a window:
//
//	w := panels.Calculate(1920, 256, 384) // {256 1280 384}
//
// # Main Packages
//
// [grid] - Collision detection, first-fit position resolution, vertical
// compaction and pixel metrics. Static items never move.
//
// [panels] - The three-panel width solver, splitter drags and best-effort
// width persistence.
//
// [layout] - Component types, layout configurations, file encoding (JSON,
// YAML) and the Repository interface with SQLite, MongoDB and key-value
// implementations.
//
// [dashboard] - The editing session: drag and resize lifecycles, locking,
// adding and removing components.
//
// [store] - Key-value backends for UI state (file, memory, Redis, null).
//
// [events] - In-process publish/subscribe bus.
//
// [a11y] - Screen-reader announcements derived from layout events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/grid/...     # Specific package
//	DASHLAYOUT_REDIS_ADDR=localhost:6379 go test ./pkg/store/...
//
// [grid]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/grid
// [panels]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/panels
// [layout]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/layout
// [dashboard]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/dashboard
// [a11y]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/a11y
// [store]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/store
// [events]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/events
// [observability]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/observability
// [config]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/vantagedata/dashlayout/pkg/buildinfo
package pkg
