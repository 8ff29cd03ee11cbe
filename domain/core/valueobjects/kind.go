package valueobjects

// NodeKind classifies the content a canvas node holds.
type NodeKind string

const (
	KindText  NodeKind = "text"
	KindImage NodeKind = "image"
	KindAudio NodeKind = "audio"
	KindVideo NodeKind = "video"
)

// Valid reports whether the kind is one of the supported node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindAudio, KindVideo:
		return true
	}
	return false
}

// IsMedia reports whether nodes of this kind carry an externally stored asset.
func (k NodeKind) IsMedia() bool {
	return k == KindImage || k == KindAudio || k == KindVideo
}

// String returns the string representation of the kind.
func (k NodeKind) String() string {
	return string(k)
}
