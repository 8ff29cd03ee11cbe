// Package media probes intrinsic image dimensions without decoding full
// pixel data.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// Register the decoders paste and generation results arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"mediagraph/application/ports"
	"mediagraph/domain/core/valueobjects"
	apperrors "mediagraph/pkg/errors"
)

// probeLimit caps how much of a remote image is read to find its header.
const probeLimit = 8 << 20

// Meter measures image dimensions from headers via image.DecodeConfig.
type Meter struct {
	client *http.Client
}

var _ ports.ImageMeter = (*Meter)(nil)

func NewMeter() *Meter {
	return &Meter{client: &http.Client{Timeout: 30 * time.Second}}
}

// MeasureBytes reads the image header from an in-memory payload.
func (m *Meter) MeasureBytes(data []byte) (valueobjects.Dimensions, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return valueobjects.Dimensions{}, apperrors.Wrap(err, "decoding image header")
	}
	return valueobjects.Dimensions{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// MeasureURL fetches a remote image and reads its header. Data URLs are
// not supported; callers fall back to fixed sizing for those.
func (m *Meter) MeasureURL(ctx context.Context, url string) (valueobjects.Dimensions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return valueobjects.Dimensions{}, apperrors.Wrap(err, "building measure request")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return valueobjects.Dimensions{}, apperrors.NewNetworkError("fetching image for measurement", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return valueobjects.Dimensions{}, apperrors.NewExternalError("measure",
			fmt.Errorf("status %d for %s", resp.StatusCode, url))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, probeLimit))
	if err != nil {
		return valueobjects.Dimensions{}, apperrors.NewNetworkError("reading image for measurement", err)
	}
	return m.MeasureBytes(data)
}
