// Package genai implements the image generation, editing and upscaling
// collaborators against external HTTP APIs.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	apperrors "mediagraph/pkg/errors"
)

// GeminiOptions configures the Gemini client.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
}

// GeminiClient talks to the Gemini generateContent API. It implements both
// ports.ImageGenerator and ports.ImageEditor: the two operations differ
// only in whether source images ride along as inline data parts.
type GeminiClient struct {
	opts   GeminiOptions
	client *http.Client
	store  ports.AssetStore
	logger *zap.Logger
}

var (
	_ ports.ImageGenerator = (*GeminiClient)(nil)
	_ ports.ImageEditor    = (*GeminiClient)(nil)
)

func NewGeminiClient(opts GeminiOptions, store ports.AssetStore, logger *zap.Logger) *GeminiClient {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &GeminiClient{
		opts:   opts,
		client: &http.Client{Timeout: 120 * time.Second},
		store:  store,
		logger: logger,
	}
}

// Generate produces an image from a prompt and re-hosts it on the asset
// store. When the re-upload fails the data URL of the raw bytes is
// returned instead, so a storage outage does not void the generation.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*ports.GeneratedImage, error) {
	parts := []geminiPart{{Text: prompt}}

	imageData, err := c.generateImage(ctx, parts)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("generated-%d-%s.png", time.Now().UnixMilli(), randomSuffix())
	return c.rehost(ctx, imageData, name), nil
}

// Edit combines or edits the source images according to the instruction.
// Images are fetched, inlined in order, and followed by a phrasing that
// lets the instruction reference them as "image 1".."image N".
func (c *GeminiClient) Edit(ctx context.Context, imageURLs []string, instruction string) (*ports.GeneratedImage, error) {
	if len(imageURLs) == 0 {
		return nil, apperrors.NewValidationError("at least one image URL is required")
	}

	parts := make([]geminiPart, 0, len(imageURLs)+1)
	for _, url := range imageURLs {
		data, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: "image/png",
				Data:     base64.StdEncoding.EncodeToString(data),
			},
		})
	}

	var text string
	if len(imageURLs) == 1 {
		text = fmt.Sprintf("Edit this image based on the following instructions: %s.", instruction)
	} else {
		text = fmt.Sprintf(
			"Combine or edit these %d images based on the following instructions: %s. "+
				`You can reference them as "image 1", "image 2", etc. in order.`,
			len(imageURLs), instruction,
		)
	}
	parts = append(parts, geminiPart{Text: text})

	imageData, err := c.generateImage(ctx, parts)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("edited-%d-%s.png", time.Now().UnixMilli(), randomSuffix())
	return c.rehost(ctx, imageData, name), nil
}

// Suggest returns up to three refined prompt variants. Service failure or
// an empty answer falls back to the draft itself.
func (c *GeminiClient) Suggest(ctx context.Context, prompt string) ([]string, error) {
	instruction := fmt.Sprintf(`Generate 3 optimized image generation prompts based on this request: %q

Create 3 unique approaches:
1. One photorealistic/professional with detailed lighting and composition
2. One artistic/creative with specific visual style and mood
3. One minimalist/modern with clean composition and aesthetic

Each prompt should:
- Start with image type and primary subject
- Include specific visual characteristics and details
- Define lighting, mood, and composition
- Use narrative description rather than keyword lists

Return only the 3 prompts, one per line, no numbering or extra text.`, prompt)

	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: instruction}}}}}
	resp, err := c.generateContent(ctx, c.opts.TextModel, req)
	if err != nil {
		c.logger.Warn("prompt suggestion failed", zap.Error(err))
		return []string{prompt}, nil
	}

	var suggestions []string
	for _, line := range strings.Split(firstText(resp), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			suggestions = append(suggestions, trimmed)
		}
		if len(suggestions) == 3 {
			break
		}
	}
	if len(suggestions) == 0 {
		return []string{prompt}, nil
	}
	return suggestions, nil
}

// generateImage runs the image model and extracts the first inline image
// part of the first candidate.
func (c *GeminiClient) generateImage(ctx context.Context, parts []geminiPart) ([]byte, error) {
	req := geminiRequest{Contents: []geminiContent{{Parts: parts}}}
	resp, err := c.generateContent(ctx, c.opts.ImageModel, req)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, apperrors.Wrap(err, "decoding inline image data")
				}
				return data, nil
			}
		}
	}
	return nil, apperrors.NewExternalError("gemini", fmt.Errorf("no image in response"))
}

func (c *GeminiClient) generateContent(ctx context.Context, model string, req geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "marshaling request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.opts.BaseURL, model, c.opts.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "building request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewNetworkError("calling gemini", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("reading gemini response", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError("gemini",
			fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(string(respBody), 200)))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, apperrors.Wrap(err, "unmarshaling gemini response")
	}
	return &resp, nil
}

// rehost uploads generated bytes to the asset store under ai-generated/.
// On failure the image survives as a data URL.
func (c *GeminiClient) rehost(ctx context.Context, data []byte, name string) *ports.GeneratedImage {
	uploaded, err := c.store.Upload(ctx, data, name, "image/png", "ai-generated")
	if err != nil {
		c.logger.Warn("re-hosting generated image failed, falling back to data URL", zap.Error(err))
		return &ports.GeneratedImage{
			URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		}
	}
	return &ports.GeneratedImage{URL: uploaded.URL}
}

func (c *GeminiClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "building fetch request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("fetching source image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError("fetch", fmt.Errorf("status %d for %s", resp.StatusCode, url))
	}
	return io.ReadAll(resp.Body)
}

func firstText(resp *geminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

func randomSuffix() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 9)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Gemini API wire types ---

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
