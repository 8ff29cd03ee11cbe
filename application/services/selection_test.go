package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/valueobjects"
)

func newSelectionFixture(t *testing.T) (*workspace.Workspace, *SelectionShareStore, []string) {
	t.Helper()
	ws := workspace.New(domconfig.DefaultDomainConfig(), canvas.DefaultViewport(1920, 1080), zap.NewNop(), nil)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := ws.AddNodeAt(valueobjects.Position{}, workspace.NodeSpec{
			Kind:  valueobjects.KindImage,
			Asset: valueobjects.AssetDescriptor{URL: "https://assets.example.com/a.png"},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ws, NewSelectionShareStore(ws), ids
}

func TestSelectionShareStore_SetSelectedReplacesWholesale(t *testing.T) {
	_, store, ids := newSelectionFixture(t)

	store.SetSelected([]string{ids[0], ids[1]})
	assert.Len(t, store.Selected(), 2)

	store.SetSelected([]string{ids[2]})
	selected := store.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, ids[2], selected[0].ID)
}

func TestSelectionShareStore_ShareIsIdempotent(t *testing.T) {
	_, store, ids := newSelectionFixture(t)

	store.SetSelected([]string{ids[0], ids[1]})
	store.ShareSelected()
	store.ShareSelected()
	assert.Len(t, store.Shared(), 2)

	// Sharing a partially overlapping selection adds only the new id.
	store.SetSelected([]string{ids[1], ids[2]})
	store.ShareSelected()
	assert.Equal(t, []string{ids[0], ids[1], ids[2]}, store.SharedIDs())
}

func TestSelectionShareStore_SharedSurvivesSelectionChange(t *testing.T) {
	_, store, ids := newSelectionFixture(t)

	store.SetSelected([]string{ids[0]})
	store.ShareSelected()
	store.SetSelected(nil)

	assert.Empty(t, store.Selected())
	require.Len(t, store.Shared(), 1)
	assert.Equal(t, ids[0], store.Shared()[0].ID)
}

func TestSelectionShareStore_RemoveAndClear(t *testing.T) {
	_, store, ids := newSelectionFixture(t)

	store.SetSelected(ids)
	store.ShareSelected()

	store.RemoveShared(ids[1])
	assert.Equal(t, []string{ids[0], ids[2]}, store.SharedIDs())

	// Removing an id that is not shared is a no-op.
	store.RemoveShared("image-UNKNOWN")
	assert.Len(t, store.SharedIDs(), 2)

	store.ClearShared()
	assert.Empty(t, store.SharedIDs())
	// The live selection is untouched by a clear.
	assert.Len(t, store.Selected(), 3)
}
