package valueobjects

import "math"

// Position is a point in canvas space (node top-left corner).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Equals checks positional equality within floating tolerance.
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

// Dimensions is a box size in canvas units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Positive reports whether both dimensions are strictly positive.
func (d Dimensions) Positive() bool {
	return d.Width > 0 && d.Height > 0
}

// IsZero reports whether the dimensions are unset.
func (d Dimensions) IsZero() bool {
	return d.Width == 0 && d.Height == 0
}

// AspectRatio returns width divided by height.
func (d Dimensions) AspectRatio() float64 {
	return d.Width / d.Height
}

// Scale returns the dimensions multiplied by factor.
func (d Dimensions) Scale(factor float64) Dimensions {
	return Dimensions{Width: d.Width * factor, Height: d.Height * factor}
}
