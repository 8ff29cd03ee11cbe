package aggregates

import (
	"time"

	"github.com/google/uuid"

	"mediagraph/domain/config"
	"mediagraph/domain/core/entities"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/domain/events"
	pkgerrors "mediagraph/pkg/errors"
)

// Graph is the aggregate root for one canvas workspace. It owns the node
// collection and the edge set, lives for the duration of the view and is
// never persisted. Insertion order is kept because it decides the default
// z-order on render.
type Graph struct {
	nodes  map[valueobjects.NodeID]*entities.Node
	order  []valueobjects.NodeID
	edges  []*Edge
	cfg    *config.DomainConfig
	events []events.DomainEvent
}

// Edge is a directed link between two node ids. Both endpoints must exist
// when the edge is created; edges are tolerated dangling if a node is later
// removed, they are never auto-pruned.
type Edge struct {
	ID        string
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	CreatedAt time.Time
}

// EdgeView is an immutable edge snapshot for the view layer.
type EdgeView struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphView is the render snapshot of the whole graph.
type GraphView struct {
	Nodes []entities.NodeView `json:"nodes"`
	Edges []EdgeView          `json:"edges"`
}

// NewGraph creates an empty graph.
func NewGraph(cfg *config.DomainConfig) *Graph {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Graph{
		nodes: make(map[valueobjects.NodeID]*entities.Node),
		cfg:   cfg,
	}
}

// AddNode appends a node to the graph. Existing nodes are never mutated by
// an add.
func (g *Graph) AddNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if _, exists := g.nodes[node.ID()]; exists {
		return pkgerrors.NewConflictError("node already exists: " + node.ID().String())
	}

	g.nodes[node.ID()] = node
	g.order = append(g.order, node.ID())
	g.addEvent(events.NewNodeAdded(node.ID(), node.Kind(), time.Now()))

	return nil
}

// UpdateNode shallow-merges fields into an existing node. Used by the
// replace-edit flow to swap the asset reference and prompt while the node
// keeps its size and position.
func (g *Graph) UpdateNode(id valueobjects.NodeID, update entities.NodeUpdate) error {
	node, ok := g.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}
	if err := node.Merge(update); err != nil {
		return err
	}

	g.addEvent(events.NewNodeUpdated(id, time.Now()))
	return nil
}

// MoveNode repositions an existing node.
func (g *Graph) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, ok := g.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}

	old := node.Position()
	node.MoveTo(position)
	g.addEvent(events.NewNodeMoved(id, old, position, time.Now()))

	return nil
}

// ResizeNode sets a new box size on an existing node.
func (g *Graph) ResizeNode(id valueobjects.NodeID, size valueobjects.Dimensions) error {
	node, ok := g.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}

	old := node.Size()
	if err := node.Resize(size); err != nil {
		return err
	}
	g.addEvent(events.NewNodeResized(id, old, size, time.Now()))

	return nil
}

// Connect appends a directed edge between two existing nodes. Self loops
// are rejected; parallel edges between the same pair are permitted and not
// deduplicated.
func (g *Graph) Connect(sourceID, targetID valueobjects.NodeID) (*Edge, error) {
	if !g.cfg.AllowSelfEdges && sourceID.Equals(targetID) {
		return nil, pkgerrors.NewValidationError("cannot connect node to itself")
	}
	if _, ok := g.nodes[sourceID]; !ok {
		return nil, pkgerrors.NewNotFoundError("source node " + sourceID.String())
	}
	if _, ok := g.nodes[targetID]; !ok {
		return nil, pkgerrors.NewNotFoundError("target node " + targetID.String())
	}

	edge := &Edge{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	g.edges = append(g.edges, edge)
	g.addEvent(events.NewEdgeAdded(edge.ID, sourceID, targetID, time.Now()))

	return edge, nil
}

// GetNode returns a node by id.
func (g *Graph) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + id.String())
	}
	return node, nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id valueobjects.NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.order))
	for _, id := range g.order {
		if node, ok := g.nodes[id]; ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// NodesByID filters the live node collection by an id set owned by the view
// layer. Selection is derived at call time, never cached here.
func (g *Graph) NodesByID(ids []string) []*entities.Node {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var nodes []*entities.Node
	for _, id := range g.order {
		if _, ok := want[id.String()]; !ok {
			continue
		}
		if node, ok := g.nodes[id]; ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// View builds the render snapshot: nodes in insertion order plus all edges.
func (g *Graph) View() GraphView {
	view := GraphView{
		Nodes: make([]entities.NodeView, 0, len(g.order)),
		Edges: make([]EdgeView, 0, len(g.edges)),
	}
	for _, node := range g.Nodes() {
		view.Nodes = append(view.Nodes, node.View())
	}
	for _, edge := range g.edges {
		view.Edges = append(view.Edges, EdgeView{
			ID:     edge.ID,
			Source: edge.SourceID.String(),
			Target: edge.TargetID.String(),
		})
	}
	return view
}

// GetUncommittedEvents returns all uncommitted domain events.
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the uncommitted events.
func (g *Graph) MarkEventsAsCommitted() {
	g.events = nil
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}
