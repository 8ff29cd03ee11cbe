package events

import (
	"time"

	"mediagraph/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// NodeAdded is raised when a node is appended to the graph.
type NodeAdded struct {
	BaseEvent
	NodeID valueobjects.NodeID   `json:"node_id"`
	Kind   valueobjects.NodeKind `json:"kind"`
}

// NewNodeAdded creates a NodeAdded event.
func NewNodeAdded(nodeID valueobjects.NodeID, kind valueobjects.NodeKind, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.added",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
		Kind:   kind,
	}
}

// NodeUpdated is raised when node fields are merged in place.
type NodeUpdated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeUpdated creates a NodeUpdated event.
func NewNodeUpdated(nodeID valueobjects.NodeID, timestamp time.Time) NodeUpdated {
	return NodeUpdated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.updated",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
	}
}

// NodeMoved is raised when a node is moved to a new position.
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event.
func NewNodeMoved(nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.moved",
			Timestamp:   timestamp,
		},
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeResized is raised on an explicit node resize.
type NodeResized struct {
	BaseEvent
	NodeID  valueobjects.NodeID     `json:"node_id"`
	OldSize valueobjects.Dimensions `json:"old_size"`
	NewSize valueobjects.Dimensions `json:"new_size"`
}

// NewNodeResized creates a NodeResized event.
func NewNodeResized(nodeID valueobjects.NodeID, oldSize, newSize valueobjects.Dimensions, timestamp time.Time) NodeResized {
	return NodeResized{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.resized",
			Timestamp:   timestamp,
		},
		NodeID:  nodeID,
		OldSize: oldSize,
		NewSize: newSize,
	}
}

// EdgeAdded is raised when two nodes are connected.
type EdgeAdded struct {
	BaseEvent
	EdgeID   string              `json:"edge_id"`
	SourceID valueobjects.NodeID `json:"source_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
}

// NewEdgeAdded creates an EdgeAdded event.
func NewEdgeAdded(edgeID string, sourceID, targetID valueobjects.NodeID, timestamp time.Time) EdgeAdded {
	return EdgeAdded{
		BaseEvent: BaseEvent{
			AggregateID: edgeID,
			EventType:   "edge.added",
			Timestamp:   timestamp,
		},
		EdgeID:   edgeID,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// ViewportChanged is raised when the user pans or zooms the canvas.
type ViewportChanged struct {
	BaseEvent
}

// NewViewportChanged creates a ViewportChanged event.
func NewViewportChanged(timestamp time.Time) ViewportChanged {
	return ViewportChanged{
		BaseEvent: BaseEvent{
			AggregateID: "viewport",
			EventType:   "viewport.changed",
			Timestamp:   timestamp,
		},
	}
}
