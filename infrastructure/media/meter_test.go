package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestMeter_MeasureBytes(t *testing.T) {
	meter := NewMeter()

	dims, err := meter.MeasureBytes(pngBytes(t, 640, 480))
	require.NoError(t, err)
	assert.Equal(t, 640.0, dims.Width)
	assert.Equal(t, 480.0, dims.Height)
}

func TestMeter_MeasureBytesRejectsGarbage(t *testing.T) {
	meter := NewMeter()

	_, err := meter.MeasureBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestMeter_MeasureURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 320, 200))
	}))
	defer server.Close()

	meter := NewMeter()
	dims, err := meter.MeasureURL(context.Background(), server.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, 320.0, dims.Width)
	assert.Equal(t, 200.0, dims.Height)
}

func TestMeter_MeasureURLNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	meter := NewMeter()
	_, err := meter.MeasureURL(context.Background(), server.URL+"/missing.png")
	assert.Error(t, err)
}
