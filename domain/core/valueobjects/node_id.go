package valueobjects

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NodeID is a value object representing a unique node identifier.
// IDs take the form "{kind}-{ulid}": the kind prefix keeps them readable,
// the ULID suffix is monotonic so two nodes created within the same
// millisecond still get distinct, sortable identifiers.
type NodeID struct {
	value string
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewNodeID creates a new NodeID for the given kind.
func NewNodeID(kind NodeKind) NodeID {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Now(), entropy)
	entropyMu.Unlock()

	return NodeID{value: kind.String() + "-" + id.String()}
}

// ParseNodeID creates a NodeID from an existing string.
func ParseNodeID(s string) (NodeID, error) {
	if s == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}

	prefix, suffix, ok := strings.Cut(s, "-")
	if !ok || !NodeKind(prefix).Valid() {
		return NodeID{}, errors.New("node ID must have a valid kind prefix")
	}
	if _, err := ulid.ParseStrict(suffix); err != nil {
		return NodeID{}, errors.New("node ID suffix must be a valid ULID")
	}

	return NodeID{value: s}, nil
}

// Kind returns the node kind encoded in the ID prefix.
func (id NodeID) Kind() NodeKind {
	prefix, _, _ := strings.Cut(id.value, "-")
	return NodeKind(prefix)
}

// String returns the string representation of the NodeID.
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal.
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value.
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
