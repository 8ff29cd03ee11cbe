package valueobjects

// AssetDescriptor references externally stored media content. Width and
// Height are the intrinsic pixel dimensions of the asset; both are zero
// when measurement failed or has not happened.
type AssetDescriptor struct {
	URL      string  `json:"url"`
	FileName string  `json:"fileName,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// HasDimensions reports whether intrinsic dimensions are known.
func (a AssetDescriptor) HasDimensions() bool {
	return a.Width > 0 && a.Height > 0
}

// Dimensions returns the intrinsic dimensions.
func (a AssetDescriptor) Dimensions() Dimensions {
	return Dimensions{Width: a.Width, Height: a.Height}
}

// IsZero reports whether the descriptor references anything.
func (a AssetDescriptor) IsZero() bool {
	return a.URL == ""
}
