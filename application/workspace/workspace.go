// Package workspace owns the mutable state of one canvas view: the graph,
// the viewport and the live selection. All mutations run as discrete,
// non-interleaved critical sections, which gives async workflows the same
// atomicity a single-threaded interaction loop would.
package workspace

import (
	"sync"

	"go.uber.org/zap"

	"mediagraph/domain/canvas"
	domconfig "mediagraph/domain/config"
	"mediagraph/domain/core/aggregates"
	"mediagraph/domain/core/entities"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/domain/events"
	"mediagraph/pkg/observability"
)

// Listener receives domain events after a mutation commits. Listeners run
// outside the workspace lock; the view layer uses them as its re-render
// trigger.
type Listener func(events.DomainEvent)

// NodeSpec describes a node to be added. Size resolution order: an explicit
// Size wins; otherwise an image with known intrinsic dimensions goes through
// the sizing profile; everything else gets the per-kind default.
type NodeSpec struct {
	Kind             valueobjects.NodeKind
	Asset            valueobjects.AssetDescriptor
	Label            string
	ProvenancePrompt string
	Profile          *canvas.SizingProfile
	Size             *valueobjects.Dimensions
}

// Workspace is created empty when the canvas view mounts and discarded on
// unmount. Nothing here is persisted.
type Workspace struct {
	mu        sync.Mutex
	graph     *aggregates.Graph
	viewport  canvas.Viewport
	selected  []string
	listeners []Listener

	logger  *zap.Logger
	metrics *observability.Collector
}

// New creates an empty workspace with an identity viewport.
func New(cfg *domconfig.DomainConfig, viewport canvas.Viewport, logger *zap.Logger, metrics *observability.Collector) *Workspace {
	return &Workspace{
		graph:    aggregates.NewGraph(cfg),
		viewport: viewport,
		logger:   logger,
		metrics:  metrics,
	}
}

// OnChange registers a change listener.
func (w *Workspace) OnChange(fn Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// AddNodeAt appends a node at an explicit canvas position.
func (w *Workspace) AddNodeAt(position valueobjects.Position, spec NodeSpec) (string, error) {
	w.mu.Lock()
	id, err := w.addNodeLocked(position, spec)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	return id, err
}

// AddNodeCentered appends a node centered at the visual middle of the
// current viewport: the screen center is transformed into canvas space and
// offset by half the node's final size.
func (w *Workspace) AddNodeCentered(spec NodeSpec) (string, error) {
	w.mu.Lock()
	transform, err := canvas.NewTransform(w.viewport)
	if err != nil {
		w.mu.Unlock()
		return "", err
	}
	size := w.resolveSize(spec)
	id, err := w.addNodeLocked(transform.CenterPlacement(size), spec)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	return id, err
}

func (w *Workspace) addNodeLocked(position valueobjects.Position, spec NodeSpec) (string, error) {
	size := w.resolveSize(spec)

	node, err := entities.NewNode(spec.Kind, position, size, spec.Asset.URL)
	if err != nil {
		return "", err
	}

	label := spec.Label
	if label == "" {
		label = defaultLabel(spec.Kind)
	}
	node.SetLabel(label)
	if spec.Asset.FileName != "" {
		node.SetFileName(spec.Asset.FileName)
	}
	if spec.ProvenancePrompt != "" {
		node.SetProvenancePrompt(spec.ProvenancePrompt)
	}

	if err := w.graph.AddNode(node); err != nil {
		return "", err
	}

	w.metrics.RecordNodeCreated()
	w.logger.Debug("node added",
		zap.String("nodeID", node.ID().String()),
		zap.String("kind", spec.Kind.String()),
		zap.Float64("width", size.Width),
		zap.Float64("height", size.Height),
	)

	return node.ID().String(), nil
}

// resolveSize turns a node spec into final on-canvas geometry.
func (w *Workspace) resolveSize(spec NodeSpec) valueobjects.Dimensions {
	if spec.Size != nil {
		return *spec.Size
	}
	if spec.Kind == valueobjects.KindImage && spec.Asset.HasDimensions() && spec.Profile != nil {
		return spec.Profile.Fit(spec.Asset.Dimensions())
	}
	return canvas.DefaultSize(spec.Kind)
}

// UpdateNode shallow-merges fields into an existing node, preserving its
// size and position.
func (w *Workspace) UpdateNode(id string, update entities.NodeUpdate) error {
	nodeID, err := valueobjects.ParseNodeID(id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	err = w.graph.UpdateNode(nodeID, update)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	return err
}

// MoveNode repositions an existing node.
func (w *Workspace) MoveNode(id string, position valueobjects.Position) error {
	nodeID, err := valueobjects.ParseNodeID(id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	err = w.graph.MoveNode(nodeID, position)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	return err
}

// ResizeNode applies a new explicit size to an existing node.
func (w *Workspace) ResizeNode(id string, size valueobjects.Dimensions) error {
	nodeID, err := valueobjects.ParseNodeID(id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	err = w.graph.ResizeNode(nodeID, size)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	return err
}

// Connect appends a directed edge between two existing nodes.
func (w *Workspace) Connect(sourceID, targetID string) (string, error) {
	source, err := valueobjects.ParseNodeID(sourceID)
	if err != nil {
		return "", err
	}
	target, err := valueobjects.ParseNodeID(targetID)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	edge, err := w.graph.Connect(source, target)
	pending := w.drainEventsLocked()
	w.mu.Unlock()

	w.notify(pending)
	if err != nil {
		return "", err
	}

	w.metrics.RecordEdgeCreated()
	return edge.ID, nil
}

// Snapshot returns a consistent render snapshot of the graph.
func (w *Workspace) Snapshot() aggregates.GraphView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.View()
}

// Node returns a snapshot of one node.
func (w *Workspace) Node(id string) (entities.NodeView, error) {
	nodeID, err := valueobjects.ParseNodeID(id)
	if err != nil {
		return entities.NodeView{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	node, err := w.graph.GetNode(nodeID)
	if err != nil {
		return entities.NodeView{}, err
	}
	return node.View(), nil
}

// SetViewport replaces the viewport after a pan/zoom gesture.
func (w *Workspace) SetViewport(v canvas.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	w.viewport = v
	w.mu.Unlock()
	return nil
}

// Viewport returns the current viewport value.
func (w *Workspace) Viewport() canvas.Viewport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewport
}

// Transform returns a frozen snapshot of the current viewport.
func (w *Workspace) Transform() (canvas.Transform, error) {
	w.mu.Lock()
	v := w.viewport
	w.mu.Unlock()
	return canvas.NewTransform(v)
}

// SetSelection replaces the live selection id set. The set is owned by the
// view layer; the workspace never flags nodes as selected itself.
func (w *Workspace) SetSelection(ids []string) {
	w.mu.Lock()
	w.selected = append([]string(nil), ids...)
	w.mu.Unlock()
}

// SelectionIDs returns the live selection ids in view order.
func (w *Workspace) SelectionIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.selected...)
}

// SelectedNodes filters the live node collection by the current selection
// at call time.
func (w *Workspace) SelectedNodes() []entities.NodeView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewsOf(w.graph.NodesByID(w.selected))
}

// SelectedNodesOfKind returns selected nodes of one kind that carry an
// asset URL, preserving graph order.
func (w *Workspace) SelectedNodesOfKind(kind valueobjects.NodeKind) []entities.NodeView {
	w.mu.Lock()
	defer w.mu.Unlock()

	var views []entities.NodeView
	for _, node := range w.graph.NodesByID(w.selected) {
		if node.Kind() == kind && node.AssetURL() != "" {
			views = append(views, node.View())
		}
	}
	return views
}

func (w *Workspace) viewsOf(nodes []*entities.Node) []entities.NodeView {
	views := make([]entities.NodeView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, node.View())
	}
	return views
}

func (w *Workspace) drainEventsLocked() []events.DomainEvent {
	pending := w.graph.GetUncommittedEvents()
	w.graph.MarkEventsAsCommitted()
	return pending
}

func (w *Workspace) notify(pending []events.DomainEvent) {
	if len(pending) == 0 {
		return
	}
	w.mu.Lock()
	listeners := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()

	for _, event := range pending {
		for _, fn := range listeners {
			fn(event)
		}
	}
}

func defaultLabel(kind valueobjects.NodeKind) string {
	switch kind {
	case valueobjects.KindText:
		return "Text Node"
	case valueobjects.KindImage:
		return "Image Node"
	case valueobjects.KindAudio:
		return "Audio Node"
	case valueobjects.KindVideo:
		return "Video Node"
	default:
		return "Node"
	}
}
