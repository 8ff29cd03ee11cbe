package entities

import (
	"time"

	"mediagraph/domain/core/valueobjects"
	pkgerrors "mediagraph/pkg/errors"
)

// Node is the main entity representing a positioned, sized unit of canvas
// content. This is a rich domain model with encapsulated business logic:
// size is set once at creation and changes only through an explicit resize
// or the replace-edit flow, which preserves it.
type Node struct {
	id               valueobjects.NodeID
	kind             valueobjects.NodeKind
	position         valueobjects.Position
	size             valueobjects.Dimensions
	assetURL         string
	label            string
	fileName         string
	provenancePrompt string
	createdAt        time.Time
	updatedAt        time.Time
}

// NodeUpdate carries the optional fields merged by Node.Merge. Nil fields
// are left untouched; size and position are deliberately absent so the
// replace-edit flow cannot disturb geometry.
type NodeUpdate struct {
	AssetURL         *string
	Label            *string
	FileName         *string
	ProvenancePrompt *string
}

// NodeView is an immutable snapshot of a node handed to the view layer.
type NodeView struct {
	ID               string                  `json:"id"`
	Kind             valueobjects.NodeKind   `json:"kind"`
	Position         valueobjects.Position   `json:"position"`
	Size             valueobjects.Dimensions `json:"size"`
	AssetURL         string                  `json:"assetUrl,omitempty"`
	Label            string                  `json:"label,omitempty"`
	FileName         string                  `json:"fileName,omitempty"`
	ProvenancePrompt string                  `json:"provenancePrompt,omitempty"`
}

// NewNode creates a node with full business rule validation. Media kinds
// (image, audio, video) must reference an asset URL; every node needs a
// strictly positive size.
func NewNode(
	kind valueobjects.NodeKind,
	position valueobjects.Position,
	size valueobjects.Dimensions,
	assetURL string,
) (*Node, error) {
	if !kind.Valid() {
		return nil, pkgerrors.NewValidationError("unknown node kind: " + kind.String())
	}
	if !size.Positive() {
		return nil, pkgerrors.NewValidationError("node size must be positive")
	}
	if kind.IsMedia() && assetURL == "" {
		return nil, pkgerrors.NewValidationError(kind.String() + " nodes require an asset URL")
	}

	now := time.Now()
	return &Node{
		id:        valueobjects.NewNodeID(kind),
		kind:      kind,
		position:  position,
		size:      size,
		assetURL:  assetURL,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the node's unique identifier.
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Kind returns the node's content kind.
func (n *Node) Kind() valueobjects.NodeKind {
	return n.kind
}

// Position returns the node's canvas position.
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Size returns the node's on-canvas box size.
func (n *Node) Size() valueobjects.Dimensions {
	return n.size
}

// AssetURL returns the external asset reference, empty for plain text nodes.
func (n *Node) AssetURL() string {
	return n.assetURL
}

// Label returns the node's display label.
func (n *Node) Label() string {
	return n.label
}

// FileName returns the original file name, when known.
func (n *Node) FileName() string {
	return n.fileName
}

// ProvenancePrompt returns the prompt that produced this node's asset,
// empty for content that was not generated.
func (n *Node) ProvenancePrompt() string {
	return n.provenancePrompt
}

// CreatedAt returns when the node was created.
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last updated.
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// SetLabel sets the display label at creation time.
func (n *Node) SetLabel(label string) {
	n.label = label
}

// SetFileName records the original file name at creation time.
func (n *Node) SetFileName(fileName string) {
	n.fileName = fileName
}

// SetProvenancePrompt records the prompt the asset came from.
func (n *Node) SetProvenancePrompt(prompt string) {
	n.provenancePrompt = prompt
}

// Merge shallow-merges the update into the node. Size and position are
// preserved; a media node's asset URL may be replaced but never cleared.
func (n *Node) Merge(update NodeUpdate) error {
	if update.AssetURL != nil {
		if n.kind.IsMedia() && *update.AssetURL == "" {
			return pkgerrors.NewValidationError(n.kind.String() + " nodes require an asset URL")
		}
		n.assetURL = *update.AssetURL
	}
	if update.Label != nil {
		n.label = *update.Label
	}
	if update.FileName != nil {
		n.fileName = *update.FileName
	}
	if update.ProvenancePrompt != nil {
		n.provenancePrompt = *update.ProvenancePrompt
	}

	n.updatedAt = time.Now()
	return nil
}

// MoveTo moves the node to a new canvas position.
func (n *Node) MoveTo(position valueobjects.Position) {
	if position.Equals(n.position) {
		return
	}
	n.position = position
	n.updatedAt = time.Now()
}

// Resize sets a new box size. This is the only path besides creation that
// may change a node's size.
func (n *Node) Resize(size valueobjects.Dimensions) error {
	if !size.Positive() {
		return pkgerrors.NewValidationError("node size must be positive")
	}
	n.size = size
	n.updatedAt = time.Now()
	return nil
}

// View returns an immutable snapshot for rendering.
func (n *Node) View() NodeView {
	return NodeView{
		ID:               n.id.String(),
		Kind:             n.kind,
		Position:         n.position,
		Size:             n.size,
		AssetURL:         n.assetURL,
		Label:            n.label,
		FileName:         n.fileName,
		ProvenancePrompt: n.provenancePrompt,
	}
}
