package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/valueobjects"
)

type fakeAssetStore struct {
	uploads  []string
	folders  []string
	fail     bool
	uploaded [][]byte
}

func (f *fakeAssetStore) Upload(ctx context.Context, data []byte, name, contentType, folder string) (*ports.UploadResult, error) {
	if f.fail {
		return nil, errors.New("bucket unavailable")
	}
	f.uploads = append(f.uploads, name)
	f.folders = append(f.folders, folder)
	f.uploaded = append(f.uploaded, data)
	return &ports.UploadResult{URL: "https://assets.example.com/" + folder + "/" + name, Key: folder + "/" + name}, nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeAssetStore) PresignUpload(ctx context.Context, name, contentType, folder string, expires time.Duration) (*ports.UploadResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAssetStore) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

type fakeMeter struct {
	dims valueobjects.Dimensions
	err  error
}

func (f *fakeMeter) MeasureBytes(data []byte) (valueobjects.Dimensions, error) {
	return f.dims, f.err
}

func (f *fakeMeter) MeasureURL(ctx context.Context, url string) (valueobjects.Dimensions, error) {
	return f.dims, f.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newPasteFixture(t *testing.T, store ports.AssetStore, meter ports.ImageMeter) (*workspace.Workspace, *PasteIngestor) {
	t.Helper()
	ws := workspace.New(domconfig.DefaultDomainConfig(), canvas.DefaultViewport(1920, 1080), zap.NewNop(), nil)
	return ws, NewPasteIngestor(ws, store, meter, zap.NewNop(), nil)
}

func TestPasteIngestor_FirstImageWins(t *testing.T) {
	store := &fakeAssetStore{}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{dims: valueobjects.Dimensions{Width: 800, Height: 400}})

	result, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "text/plain", Data: []byte("hello")},
		{MediaType: "image/png", Data: pngBytes(t, 800, 400)},
		{MediaType: "image/png", Data: pngBytes(t, 10, 10)},
	})
	require.NoError(t, err)
	assert.True(t, result.Handled)
	require.NotEmpty(t, result.NodeID)

	// One paste yields exactly one node, from the first image item.
	assert.Equal(t, 1, len(store.uploads))
	assert.Len(t, ws.Snapshot().Nodes, 1)

	view, err := ws.Node(result.NodeID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.KindImage, view.Kind)
	assert.InDelta(t, 400.0, view.Size.Width, 1e-9)
	assert.InDelta(t, 200.0, view.Size.Height, 1e-9)
}

func TestPasteIngestor_UploadNaming(t *testing.T) {
	store := &fakeAssetStore{}
	_, ingestor := newPasteFixture(t, store, &fakeMeter{dims: valueobjects.Dimensions{Width: 100, Height: 100}})

	_, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "image/png", Data: pngBytes(t, 100, 100)},
	})
	require.NoError(t, err)
	require.Len(t, store.uploads, 1)
	assert.True(t, strings.HasPrefix(store.uploads[0], "pasted-image-"))
	assert.True(t, strings.HasSuffix(store.uploads[0], ".png"))
	assert.Equal(t, "canvas", store.folders[0])
}

func TestPasteIngestor_MeasuredDimensionsSurviveUntruncated(t *testing.T) {
	store := &fakeAssetStore{}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{dims: valueobjects.Dimensions{Width: 333.5, Height: 200}})

	result, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "image/png", Data: pngBytes(t, 333, 200)},
	})
	require.NoError(t, err)

	// In-bounds dimensions pass through the sizing profile unchanged;
	// the fractional width must not be rounded on the way.
	view, err := ws.Node(result.NodeID)
	require.NoError(t, err)
	assert.InDelta(t, 333.5, view.Size.Width, 1e-9)
	assert.InDelta(t, 200.0, view.Size.Height, 1e-9)
}

func TestPasteIngestor_NoImageNotConsumed(t *testing.T) {
	store := &fakeAssetStore{}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{})

	result, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "text/plain", Data: []byte("just text")},
		{MediaType: "text/html", Data: []byte("<b>rich</b>")},
	})
	require.NoError(t, err)
	assert.False(t, result.Handled)
	assert.Empty(t, store.uploads)
	assert.Empty(t, ws.Snapshot().Nodes)
}

func TestPasteIngestor_UploadFailureAddsNothing(t *testing.T) {
	store := &fakeAssetStore{fail: true}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{})

	result, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "image/png", Data: pngBytes(t, 32, 32)},
	})
	assert.Error(t, err)
	assert.True(t, result.Handled)
	assert.Empty(t, ws.Snapshot().Nodes)
}

func TestPasteIngestor_MeasureFailureFallsBackToDefaultSize(t *testing.T) {
	store := &fakeAssetStore{}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{err: errors.New("not an image")})

	result, err := ingestor.Ingest(context.Background(), []ClipboardItem{
		{MediaType: "image/png", Data: []byte("garbage that is not png")},
	})
	require.NoError(t, err)
	require.True(t, result.Handled)

	view, err := ws.Node(result.NodeID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.Dimensions{Width: 150, Height: 80}, view.Size)
}

func TestPasteIngestor_CanceledContextAddsNothing(t *testing.T) {
	store := &fakeAssetStore{}
	ws, ingestor := newPasteFixture(t, store, &fakeMeter{dims: valueobjects.Dimensions{Width: 64, Height: 64}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ingestor.Ingest(ctx, []ClipboardItem{
		{MediaType: "image/png", Data: pngBytes(t, 64, 64)},
	})
	assert.Error(t, err)
	assert.Empty(t, ws.Snapshot().Nodes)
}
