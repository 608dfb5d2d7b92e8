package panels

import "fmt"

// Handle identifies a splitter between two panels.
type Handle string

const (
	// HandleLeft sits between the left and center panels.
	HandleLeft Handle = "left"
	// HandleRight sits between the center and right panels.
	HandleRight Handle = "right"
)

// ParseHandle parses "left" or "right".
func ParseHandle(s string) (Handle, error) {
	switch h := Handle(s); h {
	case HandleLeft, HandleRight:
		return h, nil
	}
	return "", fmt.Errorf("unknown resize handle %q", s)
}

// HandleResizeDrag applies a horizontal pointer delta to one splitter.
// Dragging the left handle right widens the left panel; dragging the right
// handle right narrows the right panel.
func HandleResizeDrag(handle Handle, deltaX float64, current Widths, totalWidth float64) Widths {
	return DefaultConstraints().HandleResizeDrag(handle, deltaX, current, totalWidth)
}

// HandleResizeDrag is [HandleResizeDrag] with custom constraints.
func (c Constraints) HandleResizeDrag(handle Handle, deltaX float64, current Widths, totalWidth float64) Widths {
	left, right := current.Left, current.Right
	switch handle {
	case HandleLeft:
		left += deltaX
	case HandleRight:
		right -= deltaX
	}
	return c.Calculate(totalWidth, left, right)
}

// Drag tracks one splitter drag. Every move is computed from the widths
// captured at Start plus the cumulative pointer delta, so rounding never
// accumulates across moves.
type Drag struct {
	constraints Constraints
	handle      Handle
	baseline    Widths
	total       float64
	current     Widths
	active      bool
}

// NewDrag creates an idle drag tracker.
func NewDrag(c Constraints) *Drag {
	return &Drag{constraints: c}
}

// Start captures the baseline widths.
func (d *Drag) Start(handle Handle, current Widths, totalWidth float64) {
	d.handle = handle
	d.baseline = current
	d.current = current
	d.total = totalWidth
	d.active = true
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Move returns the widths for a cumulative delta since Start. Without an
// active drag the last committed widths are returned unchanged.
func (d *Drag) Move(cumulativeDX float64) Widths {
	if !d.active {
		return d.current
	}
	d.current = d.constraints.HandleResizeDrag(d.handle, cumulativeDX, d.baseline, d.total)
	return d.current
}

// End finishes the drag and returns the final widths.
func (d *Drag) End() Widths {
	d.active = false
	return d.current
}

// Cancel discards the drag and returns the baseline widths.
func (d *Drag) Cancel() Widths {
	d.active = false
	d.current = d.baseline
	return d.baseline
}
