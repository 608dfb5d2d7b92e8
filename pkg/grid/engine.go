package grid

// Engine bundles a grid config with pixel metrics for the current
// container width. It is owned by a single layout session and is not safe
// for concurrent use.
type Engine struct {
	cfg     Config
	metrics Metrics
}

// NewEngine creates an engine for a container of the given pixel width.
func NewEngine(cfg Config, containerWidth float64) *Engine {
	return &Engine{cfg: cfg, metrics: NewMetrics(cfg, containerWidth)}
}

// Config returns the grid geometry.
func (e *Engine) Config() Config { return e.cfg }

// Metrics returns the pixel metrics for the current container width.
func (e *Engine) Metrics() Metrics { return e.metrics }

// Resize recomputes column width after the container changed size.
func (e *Engine) Resize(containerWidth float64) {
	e.metrics = NewMetrics(e.cfg, containerWidth)
}

// CalculatePosition snaps a pixel position to the grid and resolves it
// against existing items.
func (e *Engine) CalculatePosition(item Item, px, py float64, existing []Item) Position {
	gx, gy := e.metrics.PixelToGrid(px, py)
	return ResolvePosition(e.cfg, item, gx, gy, existing)
}

// Compact is [CompactLayout].
func (e *Engine) Compact(items []Item) CompactResult {
	return CompactLayout(items)
}

// Validate is [Validate] with the engine's config.
func (e *Engine) Validate(items []Item) error {
	return Validate(e.cfg, items)
}
