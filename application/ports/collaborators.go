// Package ports declares the contracts the application layer consumes.
// Implementations live under infrastructure.
package ports

import (
	"context"
	"time"

	"mediagraph/domain/core/valueobjects"
)

// UploadResult is the outcome of a successful asset upload.
type UploadResult struct {
	URL string
	Key string
}

// AssetStore stores binary media content and hands back dereferenceable
// URLs. The application core depends only on Upload succeeding with a
// public URL; presigning and deletion exist for the view layer.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, name, contentType, folder string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	PresignUpload(ctx context.Context, name, contentType, folder string, expires time.Duration) (*UploadResult, error)
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)
}

// GeneratedImage is the result of a generation or edit call, already
// re-hosted on the asset store.
type GeneratedImage struct {
	URL string
}

// ImageGenerator produces an image from a natural-language prompt and can
// suggest refined prompt variants.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
	Suggest(ctx context.Context, prompt string) ([]string, error)
}

// ImageEditor edits or combines up to three source images according to an
// instruction. Sources keep their order so the instruction can reference
// "image 1".."image N".
type ImageEditor interface {
	Edit(ctx context.Context, imageURLs []string, instruction string) (*GeneratedImage, error)
}

// UpscaleResult carries the upscaled asset and its output pixel
// dimensions; zero dimensions mean the service did not report them.
type UpscaleResult struct {
	URL    string
	Width  int
	Height int
}

// Upscaler increases the resolution of a single image.
type Upscaler interface {
	Upscale(ctx context.Context, imageURL string, scale float64, model string) (*UpscaleResult, error)
}

// DownloadAsset names one asset to include in a download bundle.
type DownloadAsset struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// DownloadCoordinator fetches assets and packages them for download.
// PackageMany tolerates per-asset failure; it fails only when no asset
// could be fetched.
type DownloadCoordinator interface {
	PackageMany(ctx context.Context, assets []DownloadAsset) ([]byte, error)
	FetchOne(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// ImageMeter probes the intrinsic pixel dimensions of image content.
type ImageMeter interface {
	MeasureBytes(data []byte) (valueobjects.Dimensions, error)
	MeasureURL(ctx context.Context, url string) (valueobjects.Dimensions, error)
}
