package config

// DomainConfig centralizes the business rules of the canvas that are shared
// across aggregates and workflows.
type DomainConfig struct {
	// AllowSelfEdges permits edges whose source and target are the same node.
	AllowSelfEdges bool
	// AllowParallelEdges permits multiple edges between the same node pair.
	// Parallel edges are a feature of the canvas, not an anomaly.
	AllowParallelEdges bool
	// MaxEditSources caps how many source images one edit request may carry.
	// Inputs beyond the cap are silently dropped, order preserved.
	MaxEditSources int
	// UpscaleScales lists the accepted upscale factors.
	UpscaleScales []float64
	// UpscaleModels lists the accepted upscaling model identifiers.
	UpscaleModels []string
}

// DefaultDomainConfig returns the standard canvas rules.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		AllowSelfEdges:     false,
		AllowParallelEdges: true,
		MaxEditSources:     3,
		UpscaleScales:      []float64{2, 4},
		UpscaleModels: []string{
			"RealESRGAN_x4plus",
			"RealESRGAN_x2plus",
			"RealESRGAN_x4plus_anime_6B",
		},
	}
}

// ValidScale reports whether the scale factor is accepted.
func (c *DomainConfig) ValidScale(scale float64) bool {
	for _, s := range c.UpscaleScales {
		if s == scale {
			return true
		}
	}
	return false
}

// ValidUpscaleModel reports whether the model identifier is accepted.
func (c *DomainConfig) ValidUpscaleModel(model string) bool {
	for _, m := range c.UpscaleModels {
		if m == model {
			return true
		}
	}
	return false
}
