package canvas

import (
	"errors"

	"mediagraph/domain/core/valueobjects"
)

// Viewport is the current pan offset and zoom factor mapping canvas space to
// screen space, plus the screen extent used to find the visual center. It is
// mutated only by user pan/zoom gestures.
type Viewport struct {
	PanX         float64 `json:"panX"`
	PanY         float64 `json:"panY"`
	Zoom         float64 `json:"zoom"`
	ScreenWidth  float64 `json:"screenWidth"`
	ScreenHeight float64 `json:"screenHeight"`
}

// DefaultViewport returns an identity viewport for the given screen extent.
func DefaultViewport(screenWidth, screenHeight float64) Viewport {
	return Viewport{
		Zoom:         1,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// Validate checks the viewport invariants.
func (v Viewport) Validate() error {
	if v.Zoom <= 0 {
		return errors.New("zoom must be positive")
	}
	if v.ScreenWidth <= 0 || v.ScreenHeight <= 0 {
		return errors.New("screen extent must be positive")
	}
	return nil
}

// Transform is a frozen snapshot of a viewport. All conversions made through
// one Transform observe the same pan/zoom, regardless of later gestures.
type Transform struct {
	viewport Viewport
}

// NewTransform captures a viewport snapshot. The viewport must be valid.
func NewTransform(v Viewport) (Transform, error) {
	if err := v.Validate(); err != nil {
		return Transform{}, err
	}
	return Transform{viewport: v}, nil
}

// ScreenToCanvas converts a screen-space point to canvas space.
func (t Transform) ScreenToCanvas(p valueobjects.Position) valueobjects.Position {
	return valueobjects.Position{
		X: (p.X - t.viewport.PanX) / t.viewport.Zoom,
		Y: (p.Y - t.viewport.PanY) / t.viewport.Zoom,
	}
}

// CanvasToScreen converts a canvas-space point back to screen space. It is
// the exact inverse of ScreenToCanvas for this snapshot.
func (t Transform) CanvasToScreen(p valueobjects.Position) valueobjects.Position {
	return valueobjects.Position{
		X: p.X*t.viewport.Zoom + t.viewport.PanX,
		Y: p.Y*t.viewport.Zoom + t.viewport.PanY,
	}
}

// CenterPlacement returns the canvas position that centers a box of the
// given final size at the visual middle of the viewport.
func (t Transform) CenterPlacement(size valueobjects.Dimensions) valueobjects.Position {
	center := t.ScreenToCanvas(valueobjects.Position{
		X: t.viewport.ScreenWidth / 2,
		Y: t.viewport.ScreenHeight / 2,
	})
	return valueobjects.Position{
		X: center.X - size.Width/2,
		Y: center.Y - size.Height/2,
	}
}
