package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediagraph/domain/config"
	"mediagraph/domain/core/entities"
	"mediagraph/domain/core/valueobjects"
	pkgerrors "mediagraph/pkg/errors"
)

func newTestNode(t *testing.T, kind valueobjects.NodeKind) *entities.Node {
	t.Helper()
	assetURL := ""
	if kind.IsMedia() {
		assetURL = "https://assets.example.com/a.png"
	}
	node, err := entities.NewNode(
		kind,
		valueobjects.Position{X: 10, Y: 20},
		valueobjects.Dimensions{Width: 150, Height: 80},
		assetURL,
	)
	require.NoError(t, err)
	return node
}

func TestGraph_AddNode(t *testing.T) {
	graph := NewGraph(config.DefaultDomainConfig())
	node := newTestNode(t, valueobjects.KindText)

	require.NoError(t, graph.AddNode(node))
	assert.Equal(t, 1, graph.NodeCount())
	assert.True(t, graph.HasNode(node.ID()))

	// Re-adding the same node is a conflict.
	err := graph.AddNode(node)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 1, graph.NodeCount())
}

func TestGraph_NodeIDsAreUnique(t *testing.T) {
	graph := NewGraph(nil)
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		node := newTestNode(t, valueobjects.KindImage)
		require.NoError(t, graph.AddNode(node))

		id := node.ID().String()
		_, dup := seen[id]
		require.False(t, dup, "duplicate node id %s", id)
		seen[id] = struct{}{}
	}
}

func TestGraph_NodesKeepInsertionOrder(t *testing.T) {
	graph := NewGraph(nil)
	var ids []string
	for i := 0; i < 5; i++ {
		node := newTestNode(t, valueobjects.KindText)
		require.NoError(t, graph.AddNode(node))
		ids = append(ids, node.ID().String())
	}

	nodes := graph.Nodes()
	require.Len(t, nodes, 5)
	for i, node := range nodes {
		assert.Equal(t, ids[i], node.ID().String())
	}
}

func TestGraph_Connect(t *testing.T) {
	graph := NewGraph(nil)
	a := newTestNode(t, valueobjects.KindImage)
	b := newTestNode(t, valueobjects.KindImage)
	require.NoError(t, graph.AddNode(a))
	require.NoError(t, graph.AddNode(b))

	edge, err := graph.Connect(a.ID(), b.ID())
	require.NoError(t, err)
	assert.NotEmpty(t, edge.ID)
	assert.True(t, edge.SourceID.Equals(a.ID()))
	assert.True(t, edge.TargetID.Equals(b.ID()))
}

func TestGraph_ConnectRejectsSelfLoop(t *testing.T) {
	graph := NewGraph(nil)
	node := newTestNode(t, valueobjects.KindText)
	require.NoError(t, graph.AddNode(node))

	_, err := graph.Connect(node.ID(), node.ID())
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, graph.Edges())
}

func TestGraph_ConnectRequiresBothEndpoints(t *testing.T) {
	graph := NewGraph(nil)
	node := newTestNode(t, valueobjects.KindText)
	require.NoError(t, graph.AddNode(node))

	ghost := valueobjects.NewNodeID(valueobjects.KindText)
	_, err := graph.Connect(node.ID(), ghost)
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = graph.Connect(ghost, node.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGraph_ParallelEdgesAllowed(t *testing.T) {
	graph := NewGraph(nil)
	a := newTestNode(t, valueobjects.KindText)
	b := newTestNode(t, valueobjects.KindText)
	require.NoError(t, graph.AddNode(a))
	require.NoError(t, graph.AddNode(b))

	first, err := graph.Connect(a.ID(), b.ID())
	require.NoError(t, err)
	second, err := graph.Connect(a.ID(), b.ID())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, graph.Edges(), 2)
}

func TestGraph_UpdateNodePreservesGeometry(t *testing.T) {
	graph := NewGraph(nil)
	node := newTestNode(t, valueobjects.KindImage)
	require.NoError(t, graph.AddNode(node))
	require.NoError(t, graph.MoveNode(node.ID(), valueobjects.Position{X: 77, Y: 88}))
	require.NoError(t, graph.ResizeNode(node.ID(), valueobjects.Dimensions{Width: 300, Height: 200}))

	newURL := "https://assets.example.com/b.png"
	newLabel := "Edited: brighter sky"
	require.NoError(t, graph.UpdateNode(node.ID(), entities.NodeUpdate{
		AssetURL: &newURL,
		Label:    &newLabel,
	}))

	updated, err := graph.GetNode(node.ID())
	require.NoError(t, err)
	assert.Equal(t, newURL, updated.AssetURL())
	assert.Equal(t, newLabel, updated.Label())
	assert.Equal(t, valueobjects.Position{X: 77, Y: 88}, updated.Position())
	assert.Equal(t, valueobjects.Dimensions{Width: 300, Height: 200}, updated.Size())
}

func TestGraph_UpdateNodeNeverClearsMediaURL(t *testing.T) {
	graph := NewGraph(nil)
	node := newTestNode(t, valueobjects.KindImage)
	require.NoError(t, graph.AddNode(node))

	empty := ""
	err := graph.UpdateNode(node.ID(), entities.NodeUpdate{AssetURL: &empty})
	assert.Error(t, err)

	updated, err := graph.GetNode(node.ID())
	require.NoError(t, err)
	assert.NotEmpty(t, updated.AssetURL())
}

func TestGraph_NodesByIDFiltersInOrder(t *testing.T) {
	graph := NewGraph(nil)
	var ids []string
	for i := 0; i < 4; i++ {
		node := newTestNode(t, valueobjects.KindText)
		require.NoError(t, graph.AddNode(node))
		ids = append(ids, node.ID().String())
	}

	// Request out of order plus an unknown id; graph order wins, unknown
	// ids resolve to nothing.
	got := graph.NodesByID([]string{ids[2], "text-UNKNOWN", ids[0]})
	require.Len(t, got, 2)
	assert.Equal(t, ids[0], got[0].ID().String())
	assert.Equal(t, ids[2], got[1].ID().String())
}

func TestGraph_EventsAccumulateAndClear(t *testing.T) {
	graph := NewGraph(nil)
	a := newTestNode(t, valueobjects.KindText)
	b := newTestNode(t, valueobjects.KindText)
	require.NoError(t, graph.AddNode(a))
	require.NoError(t, graph.AddNode(b))
	_, err := graph.Connect(a.ID(), b.ID())
	require.NoError(t, err)

	assert.Len(t, graph.GetUncommittedEvents(), 3)
	graph.MarkEventsAsCommitted()
	assert.Empty(t, graph.GetUncommittedEvents())
}

func TestGraph_View(t *testing.T) {
	graph := NewGraph(nil)
	a := newTestNode(t, valueobjects.KindImage)
	b := newTestNode(t, valueobjects.KindText)
	require.NoError(t, graph.AddNode(a))
	require.NoError(t, graph.AddNode(b))
	_, err := graph.Connect(a.ID(), b.ID())
	require.NoError(t, err)

	view := graph.View()
	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, a.ID().String(), view.Nodes[0].ID)
	assert.Equal(t, a.ID().String(), view.Edges[0].Source)
	assert.Equal(t, b.ID().String(), view.Edges[0].Target)
}
