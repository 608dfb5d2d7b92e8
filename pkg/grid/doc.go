// Package grid implements the dashboard grid layout engine.
//
// Items are axis-aligned rectangles measured in grid units on a fixed number
// of columns (24 by default) and an unbounded number of rows. The package
// provides the pieces a drag-and-drop dashboard needs:
//
//   - Collision detection ([Collides], [DetectCollisions])
//   - Snap-to-grid placement with a first-fit fallback search ([ResolvePosition])
//   - Vertical compaction that removes gaps ([CompactLayout])
//   - Grid/pixel conversion based on the live container width ([Metrics])
//   - Constraint-aware mutations and validation ([MoveItem], [ResizeItem], [Validate])
//
// # Placement order
//
// When the snapped position of an item collides, the resolver scans rows
// top-to-bottom starting at the requested row and, within a row, columns
// left-to-right. The first collision-free cell wins. This is a deterministic
// first-fit rule, not a nearest-distance search: an item dropped slightly to
// the right of an obstacle may land at column 0 of the same row.
//
// # Static items
//
// Static items never move. They are skipped by drags, resizes and compaction
// but still act as obstacles for every other item.
//
// All functions in this package are pure: they never mutate their input
// slices and hold no state besides what [Engine] caches for convenience.
package grid
