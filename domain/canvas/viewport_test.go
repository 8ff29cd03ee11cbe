package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediagraph/domain/core/valueobjects"
)

func TestNewTransform_RejectsInvalidViewport(t *testing.T) {
	_, err := NewTransform(Viewport{Zoom: 0, ScreenWidth: 1920, ScreenHeight: 1080})
	assert.Error(t, err)

	_, err = NewTransform(Viewport{Zoom: -2, ScreenWidth: 1920, ScreenHeight: 1080})
	assert.Error(t, err)

	_, err = NewTransform(Viewport{Zoom: 1, ScreenWidth: 0, ScreenHeight: 1080})
	assert.Error(t, err)
}

func TestTransform_RoundTrip(t *testing.T) {
	viewport := Viewport{PanX: 120, PanY: -45, Zoom: 1.75, ScreenWidth: 1920, ScreenHeight: 1080}
	transform, err := NewTransform(viewport)
	require.NoError(t, err)

	points := []valueobjects.Position{
		{X: 0, Y: 0},
		{X: 960, Y: 540},
		{X: -300, Y: 2000},
	}
	for _, p := range points {
		back := transform.CanvasToScreen(transform.ScreenToCanvas(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestTransform_ScreenToCanvas(t *testing.T) {
	viewport := Viewport{PanX: 100, PanY: 50, Zoom: 2, ScreenWidth: 1920, ScreenHeight: 1080}
	transform, err := NewTransform(viewport)
	require.NoError(t, err)

	got := transform.ScreenToCanvas(valueobjects.Position{X: 500, Y: 450})
	assert.InDelta(t, 200.0, got.X, 1e-9)
	assert.InDelta(t, 200.0, got.Y, 1e-9)
}

func TestTransform_CenterPlacement(t *testing.T) {
	viewport := DefaultViewport(1920, 1080)
	transform, err := NewTransform(viewport)
	require.NoError(t, err)

	// Identity viewport: box center lands at the screen center.
	pos := transform.CenterPlacement(valueobjects.Dimensions{Width: 400, Height: 300})
	assert.InDelta(t, 960.0-200, pos.X, 1e-9)
	assert.InDelta(t, 540.0-150, pos.Y, 1e-9)
}

func TestTransform_CenterPlacementWithPanAndZoom(t *testing.T) {
	viewport := Viewport{PanX: 200, PanY: 100, Zoom: 2, ScreenWidth: 1000, ScreenHeight: 800}
	transform, err := NewTransform(viewport)
	require.NoError(t, err)

	pos := transform.CenterPlacement(valueobjects.Dimensions{Width: 100, Height: 100})
	// Screen center (500,400) -> canvas ((500-200)/2, (400-100)/2) = (150,150)
	assert.InDelta(t, 150.0-50, pos.X, 1e-9)
	assert.InDelta(t, 150.0-50, pos.Y, 1e-9)
}

func TestTransform_IsFrozenSnapshot(t *testing.T) {
	viewport := DefaultViewport(1000, 800)
	transform, err := NewTransform(viewport)
	require.NoError(t, err)

	before := transform.ScreenToCanvas(valueobjects.Position{X: 100, Y: 100})

	// Mutating the source viewport must not affect the snapshot.
	viewport.PanX = 9999
	after := transform.ScreenToCanvas(valueobjects.Position{X: 100, Y: 100})

	assert.Equal(t, before, after)
}
