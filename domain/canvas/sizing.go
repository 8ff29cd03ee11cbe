// Package canvas holds the pure geometry of the workspace: the screen to
// canvas coordinate transform and the adaptive sizing policy that turns raw
// media dimensions into on-canvas box geometry.
package canvas

import "mediagraph/domain/core/valueobjects"

// SizingProfile bounds the on-canvas size of an image node while preserving
// its aspect ratio. Two profiles are in force and they deliberately disagree
// on minimum bounds and on the undersize test; callers rely on the exact
// behavior of each, so they must not be unified.
type SizingProfile struct {
	MaxWidth  float64
	MaxHeight float64
	MinWidth  float64
	MinHeight float64

	// UndersizeRequiresBoth selects the undersize test: when true, both
	// dimensions must fall below the minimums; when false, either one is
	// enough to trigger upscaling to the minimum bounds.
	UndersizeRequiresBoth bool
}

var (
	// ProfileManual applies to manually added and pasted images.
	ProfileManual = SizingProfile{
		MaxWidth:  400,
		MaxHeight: 300,
		MinWidth:  100,
		MinHeight: 80,
	}

	// ProfileGenerated applies to generation and edit results added to the
	// canvas.
	ProfileGenerated = SizingProfile{
		MaxWidth:              400,
		MaxHeight:             300,
		MinWidth:              150,
		MinHeight:             100,
		UndersizeRequiresBoth: true,
	}
)

// Fit maps intrinsic pixel dimensions to an on-canvas box size. Oversized
// input is scaled down to the max bounds, undersized input (per the
// profile's test) is scaled up to the min bounds; in both cases exactly one
// dimension is pinned and the other follows the aspect ratio. Input already
// within bounds is returned unchanged. Fit is a pure function.
func (p SizingProfile) Fit(d valueobjects.Dimensions) valueobjects.Dimensions {
	if !d.Positive() {
		return d
	}

	ratio := d.AspectRatio()

	if d.Width > p.MaxWidth || d.Height > p.MaxHeight {
		if ratio > 1 {
			return valueobjects.Dimensions{Width: p.MaxWidth, Height: p.MaxWidth / ratio}
		}
		return valueobjects.Dimensions{Width: p.MaxHeight * ratio, Height: p.MaxHeight}
	}

	if p.undersize(d) {
		if ratio > 1 {
			return valueobjects.Dimensions{Width: p.MinWidth, Height: p.MinWidth / ratio}
		}
		return valueobjects.Dimensions{Width: p.MinHeight * ratio, Height: p.MinHeight}
	}

	return d
}

func (p SizingProfile) undersize(d valueobjects.Dimensions) bool {
	if p.UndersizeRequiresBoth {
		return d.Width < p.MinWidth && d.Height < p.MinHeight
	}
	return d.Width < p.MinWidth || d.Height < p.MinHeight
}

// DefaultSize returns the fixed per-kind box size used when no intrinsic
// dimensions are available. Images without known dimensions fall back to the
// generic default rather than going through a sizing profile.
func DefaultSize(kind valueobjects.NodeKind) valueobjects.Dimensions {
	switch kind {
	case valueobjects.KindAudio:
		return valueobjects.Dimensions{Width: 200, Height: 100}
	case valueobjects.KindVideo:
		return valueobjects.Dimensions{Width: 150, Height: 120}
	default:
		return valueobjects.Dimensions{Width: 150, Height: 80}
	}
}
