// Package panels allocates widths for the three-panel dashboard window:
// a data-source sidebar on the left, the dashboard in the center and the
// chat panel on the right.
//
// [Calculate] is a one-dimensional constraint solver. Desired side widths
// are clamped to their bounds, then the right panel and finally the left
// panel give up space until the center reaches its minimum. The returned
// widths always sum to the total width.
package panels

// Constraints bounds the panel widths in pixels.
type Constraints struct {
	LeftMin   float64 `json:"leftMin" toml:"left_min" yaml:"leftMin"`
	LeftMax   float64 `json:"leftMax" toml:"left_max" yaml:"leftMax"`
	CenterMin float64 `json:"centerMin" toml:"center_min" yaml:"centerMin"`
	RightMin  float64 `json:"rightMin" toml:"right_min" yaml:"rightMin"`
	RightMax  float64 `json:"rightMax" toml:"right_max" yaml:"rightMax"`
}

// Default constraints and desired widths.
const (
	LeftMin   = 180.0
	LeftMax   = 400.0
	CenterMin = 400.0
	RightMin  = 280.0
	RightMax  = 800.0

	DefaultLeft  = 256.0
	DefaultRight = 384.0
)

// DefaultConstraints returns the standard window constraints.
func DefaultConstraints() Constraints {
	return Constraints{
		LeftMin:   LeftMin,
		LeftMax:   LeftMax,
		CenterMin: CenterMin,
		RightMin:  RightMin,
		RightMax:  RightMax,
	}
}

// MinTotal is the smallest total width at which every minimum holds.
func (c Constraints) MinTotal() float64 {
	return c.LeftMin + c.CenterMin + c.RightMin
}

// Widths is one allocation of the window width.
type Widths struct {
	Left   float64 `json:"left"`
	Center float64 `json:"center"`
	Right  float64 `json:"right"`
}

// Total returns the sum of the three widths.
func (w Widths) Total() float64 { return w.Left + w.Center + w.Right }

// Calculate allocates totalWidth between the panels using the default
// constraints.
func Calculate(totalWidth, desiredLeft, desiredRight float64) Widths {
	return DefaultConstraints().Calculate(totalWidth, desiredLeft, desiredRight)
}

// Defaults returns the allocation for the default desired widths.
func Defaults(totalWidth float64) Widths {
	return Calculate(totalWidth, DefaultLeft, DefaultRight)
}

// Calculate allocates totalWidth between the panels.
//
// Below MinTotal the minimums cannot all hold; every panel then shrinks in
// proportion to its minimum. A non-positive total yields all zeros.
func (c Constraints) Calculate(totalWidth, desiredLeft, desiredRight float64) Widths {
	if totalWidth <= 0 {
		return Widths{}
	}
	if minTotal := c.MinTotal(); totalWidth < minTotal {
		scale := totalWidth / minTotal
		left := c.LeftMin * scale
		right := c.RightMin * scale
		return Widths{Left: left, Center: totalWidth - left - right, Right: right}
	}

	left := clamp(desiredLeft, c.LeftMin, c.LeftMax)
	right := clamp(desiredRight, c.RightMin, c.RightMax)
	center := totalWidth - left - right

	if center < c.CenterMin {
		right = max(c.RightMin, right-(c.CenterMin-center))
		center = totalWidth - left - right
	}
	if center < c.CenterMin {
		left = max(c.LeftMin, left-(c.CenterMin-center))
		center = totalWidth - left - right
	}

	return Widths{Left: left, Center: center, Right: right}
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	return min(max(v, lo), hi)
}
