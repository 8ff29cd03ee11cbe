package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	apperrors "mediagraph/pkg/errors"
)

// FalOptions configures the fal.ai client.
type FalOptions struct {
	APIKey  string
	BaseURL string
}

// FalClient upscales images through the fal.ai ESRGAN endpoint.
type FalClient struct {
	opts   FalOptions
	client *http.Client
	store  ports.AssetStore
	logger *zap.Logger
}

var _ ports.Upscaler = (*FalClient)(nil)

func NewFalClient(opts FalOptions, store ports.AssetStore, logger *zap.Logger) *FalClient {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &FalClient{
		opts:   opts,
		client: &http.Client{Timeout: 180 * time.Second},
		store:  store,
		logger: logger,
	}
}

type falUpscaleRequest struct {
	ImageURL     string  `json:"image_url"`
	Scale        float64 `json:"scale"`
	Model        string  `json:"model"`
	OutputFormat string  `json:"output_format"`
}

type falUpscaleResponse struct {
	Image *falImage `json:"image"`
}

type falImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upscale runs the ESRGAN model and re-hosts the result on the asset
// store. When the re-upload fails the fal.ai URL is returned directly, so
// the workflow still gets a dereferenceable asset.
func (c *FalClient) Upscale(ctx context.Context, imageURL string, scale float64, model string) (*ports.UpscaleResult, error) {
	body, err := json.Marshal(falUpscaleRequest{
		ImageURL:     imageURL,
		Scale:        scale,
		Model:        model,
		OutputFormat: "png",
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "marshaling upscale request")
	}

	url := c.opts.BaseURL + "/fal-ai/esrgan"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "building upscale request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.opts.APIKey)

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("calling fal.ai", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("reading fal.ai response", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError("fal.ai",
			fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(string(respBody), 200)))
	}

	var resp falUpscaleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, apperrors.Wrap(err, "unmarshaling fal.ai response")
	}
	if resp.Image == nil || resp.Image.URL == "" {
		return nil, apperrors.NewExternalError("fal.ai", fmt.Errorf("no upscaled image in response"))
	}

	result := &ports.UpscaleResult{
		URL:    resp.Image.URL,
		Width:  resp.Image.Width,
		Height: resp.Image.Height,
	}

	data, err := c.fetch(ctx, resp.Image.URL)
	if err != nil {
		c.logger.Warn("fetching upscaled image failed, using fal.ai URL", zap.Error(err))
		return result, nil
	}

	name := fmt.Sprintf("upscaled-%d-%s.png", time.Now().UnixMilli(), randomSuffix())
	uploaded, err := c.store.Upload(ctx, data, name, "image/png", "upscaled")
	if err != nil {
		c.logger.Warn("re-hosting upscaled image failed, using fal.ai URL", zap.Error(err))
		return result, nil
	}

	result.URL = uploaded.URL
	return result, nil
}

func (c *FalClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
