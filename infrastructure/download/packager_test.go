package download

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediagraph/application/ports"
)

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte)
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[file.Name] = content
	}
	return entries
}

func TestPackager_PackageMany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.png":
			w.Write([]byte("image-a"))
		case "/b.png":
			w.Write([]byte("image-b"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	packager := NewPackager(zap.NewNop())
	archive, err := packager.PackageMany(context.Background(), []ports.DownloadAsset{
		{URL: server.URL + "/a.png", Name: "first.png"},
		{URL: server.URL + "/missing.png", Name: "broken.png"},
		{URL: server.URL + "/b.png", Name: "second.png"},
	})
	require.NoError(t, err)

	entries := readArchive(t, archive)
	require.Len(t, entries, 3)
	assert.Equal(t, []byte("image-a"), entries["first.png"])
	assert.Equal(t, []byte("image-b"), entries["second.png"])
	assert.Contains(t, string(entries["error-2.txt"]), "missing.png")
}

func TestPackager_FailsWhenNothingFetched(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	packager := NewPackager(zap.NewNop())
	_, err := packager.PackageMany(context.Background(), []ports.DownloadAsset{
		{URL: server.URL + "/x.png", Name: "x.png"},
		{URL: server.URL + "/y.png", Name: "y.png"},
	})
	assert.Error(t, err)
}

func TestPackager_EmptyRequestRejected(t *testing.T) {
	packager := NewPackager(zap.NewNop())
	_, err := packager.PackageMany(context.Background(), nil)
	assert.Error(t, err)
}

func TestPackager_EntryNaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	packager := NewPackager(zap.NewNop())
	archive, err := packager.PackageMany(context.Background(), []ports.DownloadAsset{
		{URL: server.URL + "/1", Name: "photo.jpeg"},
		{URL: server.URL + "/2", Name: "no-extension"},
		{URL: server.URL + "/3"},
	})
	require.NoError(t, err)

	entries := readArchive(t, archive)
	assert.Contains(t, entries, "photo.jpeg")
	assert.Contains(t, entries, "no-extension.png")
	assert.Contains(t, entries, "asset-3.png")
}

func TestPackager_FetchOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("single"))
	}))
	defer server.Close()

	packager := NewPackager(zap.NewNop())
	data, contentType, err := packager.FetchOne(context.Background(), server.URL+"/one.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("single"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestPackager_FetchOneNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	packager := NewPackager(zap.NewNop())
	_, _, err := packager.FetchOne(context.Background(), server.URL+"/gone.png")
	assert.Error(t, err)
}
