package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediagraph/domain/canvas"
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/domain/events"
	pkgerrors "mediagraph/pkg/errors"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return New(domconfig.DefaultDomainConfig(), canvas.DefaultViewport(1920, 1080), zap.NewNop(), nil)
}

func TestWorkspace_AddNodeCentered_FitsImageDimensions(t *testing.T) {
	ws := newTestWorkspace(t)
	profile := canvas.ProfileManual

	id, err := ws.AddNodeCentered(NodeSpec{
		Kind: valueobjects.KindImage,
		Asset: valueobjects.AssetDescriptor{
			URL:    "https://assets.example.com/a.png",
			Width:  800,
			Height: 400,
		},
		Profile: &profile,
	})
	require.NoError(t, err)

	view, err := ws.Node(id)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, view.Size.Width, 1e-9)
	assert.InDelta(t, 200.0, view.Size.Height, 1e-9)
	// Centered: box middle at the canvas point under the screen center.
	assert.InDelta(t, 960.0-200, view.Position.X, 1e-9)
	assert.InDelta(t, 540.0-100, view.Position.Y, 1e-9)
}

func TestWorkspace_AddNodeCentered_DefaultSizeWithoutDimensions(t *testing.T) {
	ws := newTestWorkspace(t)
	profile := canvas.ProfileManual

	id, err := ws.AddNodeCentered(NodeSpec{
		Kind:    valueobjects.KindImage,
		Asset:   valueobjects.AssetDescriptor{URL: "https://assets.example.com/a.png"},
		Profile: &profile,
	})
	require.NoError(t, err)

	view, err := ws.Node(id)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.Dimensions{Width: 150, Height: 80}, view.Size)
}

func TestWorkspace_AddNode_ExplicitSizeWins(t *testing.T) {
	ws := newTestWorkspace(t)
	profile := canvas.ProfileGenerated
	size := valueobjects.Dimensions{Width: 1024, Height: 768}

	id, err := ws.AddNodeAt(valueobjects.Position{X: 5, Y: 5}, NodeSpec{
		Kind: valueobjects.KindImage,
		Asset: valueobjects.AssetDescriptor{
			URL:    "https://assets.example.com/a.png",
			Width:  100,
			Height: 100,
		},
		Profile: &profile,
		Size:    &size,
	})
	require.NoError(t, err)

	view, err := ws.Node(id)
	require.NoError(t, err)
	assert.Equal(t, size, view.Size)
}

func TestWorkspace_AddNode_DefaultLabels(t *testing.T) {
	ws := newTestWorkspace(t)

	tests := []struct {
		kind  valueobjects.NodeKind
		asset valueobjects.AssetDescriptor
		label string
	}{
		{valueobjects.KindText, valueobjects.AssetDescriptor{}, "Text Node"},
		{valueobjects.KindImage, valueobjects.AssetDescriptor{URL: "https://x/i.png"}, "Image Node"},
		{valueobjects.KindAudio, valueobjects.AssetDescriptor{URL: "https://x/a.mp3"}, "Audio Node"},
		{valueobjects.KindVideo, valueobjects.AssetDescriptor{URL: "https://x/v.mp4"}, "Video Node"},
	}
	for _, tt := range tests {
		id, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: tt.kind, Asset: tt.asset})
		require.NoError(t, err)
		view, err := ws.Node(id)
		require.NoError(t, err)
		assert.Equal(t, tt.label, view.Label)
	}
}

func TestWorkspace_AddNode_RejectsMediaWithoutAsset(t *testing.T) {
	ws := newTestWorkspace(t)

	_, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindImage})
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, ws.Snapshot().Nodes)
}

func TestWorkspace_SelectionDerivedAtCallTime(t *testing.T) {
	ws := newTestWorkspace(t)
	id1, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindText})
	require.NoError(t, err)
	id2, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{
		Kind:  valueobjects.KindImage,
		Asset: valueobjects.AssetDescriptor{URL: "https://x/i.png"},
	})
	require.NoError(t, err)

	ws.SetSelection([]string{id1, id2})
	assert.Len(t, ws.SelectedNodes(), 2)

	// Narrowing the selection narrows the derived set.
	ws.SetSelection([]string{id2})
	selected := ws.SelectedNodes()
	require.Len(t, selected, 1)
	assert.Equal(t, id2, selected[0].ID)

	// Selecting an id with no live node resolves to nothing.
	ws.SetSelection([]string{"image-GONE"})
	assert.Empty(t, ws.SelectedNodes())
}

func TestWorkspace_SelectedNodesOfKind(t *testing.T) {
	ws := newTestWorkspace(t)
	textID, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindText})
	require.NoError(t, err)
	imageID, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{
		Kind:  valueobjects.KindImage,
		Asset: valueobjects.AssetDescriptor{URL: "https://x/i.png"},
	})
	require.NoError(t, err)

	ws.SetSelection([]string{textID, imageID})
	images := ws.SelectedNodesOfKind(valueobjects.KindImage)
	require.Len(t, images, 1)
	assert.Equal(t, imageID, images[0].ID)
}

func TestWorkspace_ListenersNotified(t *testing.T) {
	ws := newTestWorkspace(t)

	var received []events.DomainEvent
	ws.OnChange(func(e events.DomainEvent) { received = append(received, e) })

	id, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindText})
	require.NoError(t, err)
	require.NoError(t, ws.MoveNode(id, valueobjects.Position{X: 9, Y: 9}))

	require.Len(t, received, 2)
	assert.Equal(t, "node.added", received[0].GetEventType())
	assert.Equal(t, "node.moved", received[1].GetEventType())
}

func TestWorkspace_ConnectThroughWorkspace(t *testing.T) {
	ws := newTestWorkspace(t)
	a, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindText})
	require.NoError(t, err)
	b, err := ws.AddNodeAt(valueobjects.Position{}, NodeSpec{Kind: valueobjects.KindText})
	require.NoError(t, err)

	edgeID, err := ws.Connect(a, b)
	require.NoError(t, err)
	assert.NotEmpty(t, edgeID)

	snapshot := ws.Snapshot()
	require.Len(t, snapshot.Edges, 1)
	assert.Equal(t, a, snapshot.Edges[0].Source)
}
