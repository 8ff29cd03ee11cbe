// Package download fetches remote assets and packages them into zip
// archives for bulk download.
package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mediagraph/application/ports"
	apperrors "mediagraph/pkg/errors"
)

// fetchConcurrency bounds parallel asset downloads per bundle.
const fetchConcurrency = 4

var extensionPattern = regexp.MustCompile(`\.(png|jpe?g|gif|webp|mp3|wav|mp4|webm)$`)

// Packager implements ports.DownloadCoordinator over plain HTTP.
type Packager struct {
	client *http.Client
	logger *zap.Logger
}

var _ ports.DownloadCoordinator = (*Packager)(nil)

func NewPackager(logger *zap.Logger) *Packager {
	return &Packager{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

type fetched struct {
	name string
	data []byte
	err  error
}

// PackageMany fetches the assets in parallel and zips them. A failed asset
// becomes an error-{N}.txt placeholder naming what went wrong; the bundle
// fails outright only when every fetch failed.
func (p *Packager) PackageMany(ctx context.Context, assets []ports.DownloadAsset) ([]byte, error) {
	if len(assets) == 0 {
		return nil, apperrors.NewValidationError("no assets to download")
	}

	results := make([]fetched, len(assets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, asset := range assets {
		g.Go(func() error {
			data, _, err := p.FetchOne(ctx, asset.URL)
			results[i] = fetched{
				name: entryName(asset, i),
				data: data,
				err:  err,
			}
			// Per-asset failures become placeholders, not bundle errors.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	succeeded := 0
	for i, result := range results {
		if result.err != nil {
			p.logger.Warn("asset fetch failed, writing placeholder",
				zap.String("url", assets[i].URL), zap.Error(result.err))
			w, err := zw.Create(fmt.Sprintf("error-%d.txt", i+1))
			if err != nil {
				return nil, apperrors.Wrap(err, "writing archive entry")
			}
			fmt.Fprintf(w, "Failed to download %s: %v\n", assets[i].URL, result.err)
			continue
		}

		w, err := zw.Create(result.name)
		if err != nil {
			return nil, apperrors.Wrap(err, "writing archive entry")
		}
		if _, err := w.Write(result.data); err != nil {
			return nil, apperrors.Wrap(err, "writing archive entry")
		}
		succeeded++
	}
	if err := zw.Close(); err != nil {
		return nil, apperrors.Wrap(err, "finalizing archive")
	}

	if succeeded == 0 {
		return nil, apperrors.NewExternalError("download", fmt.Errorf("all %d asset fetches failed", len(assets)))
	}
	return buf.Bytes(), nil
}

// FetchOne streams a single asset into memory for a direct download.
func (p *Packager) FetchOne(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "building download request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", apperrors.NewNetworkError("fetching asset", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.NewExternalError("download", fmt.Errorf("status %d for %s", resp.StatusCode, url))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.NewNetworkError("reading asset", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// entryName names one archive entry, defaulting the extension to .png when
// the asset name carries none.
func entryName(asset ports.DownloadAsset, index int) string {
	name := asset.Name
	if name == "" {
		name = fmt.Sprintf("asset-%d", index+1)
	}
	if !extensionPattern.MatchString(name) {
		name += ".png"
	}
	return name
}
