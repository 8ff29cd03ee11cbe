package services

import (
	"sync"

	"mediagraph/application/workspace"
	"mediagraph/domain/core/entities"
)

// SelectionShareStore bridges the canvas selection to side panels. It keeps
// two independent id sets over the same workspace: the live selection,
// replaced wholesale on every selection change, and a sticky shared set
// that survives selection changes until explicitly removed or cleared.
type SelectionShareStore struct {
	mu     sync.Mutex
	ws     *workspace.Workspace
	shared []string
}

func NewSelectionShareStore(ws *workspace.Workspace) *SelectionShareStore {
	return &SelectionShareStore{ws: ws}
}

// SetSelected replaces the live selection with the given node ids.
func (s *SelectionShareStore) SetSelected(ids []string) {
	s.ws.SetSelection(ids)
}

// ShareSelected promotes the current live selection into the shared set.
// Already-shared ids are skipped, so re-sharing an unchanged selection is
// idempotent.
func (s *SelectionShareStore) ShareSelected() {
	ids := s.ws.SelectionIDs()

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.shared))
	for _, id := range s.shared {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.shared = append(s.shared, id)
	}
}

// RemoveShared removes one id from the shared set. Removing an id that is
// not shared is a no-op.
func (s *SelectionShareStore) RemoveShared(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, shared := range s.shared {
		if shared == id {
			s.shared = append(s.shared[:i], s.shared[i+1:]...)
			return
		}
	}
}

// ClearShared empties the shared set. The live selection is untouched.
func (s *SelectionShareStore) ClearShared() {
	s.mu.Lock()
	s.shared = nil
	s.mu.Unlock()
}

// Selected resolves the live selection against the graph at call time.
// Ids whose nodes are gone resolve to nothing.
func (s *SelectionShareStore) Selected() []entities.NodeView {
	return s.ws.SelectedNodes()
}

// Shared resolves the shared set against the graph at call time.
func (s *SelectionShareStore) Shared() []entities.NodeView {
	s.mu.Lock()
	ids := append([]string(nil), s.shared...)
	s.mu.Unlock()

	views := make([]entities.NodeView, 0, len(ids))
	for _, id := range ids {
		view, err := s.ws.Node(id)
		if err != nil {
			continue
		}
		views = append(views, view)
	}
	return views
}

// SharedIDs returns the shared ids in share order.
func (s *SelectionShareStore) SharedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shared...)
}
