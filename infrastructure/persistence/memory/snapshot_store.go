package memory

import (
	"sync/atomic"

	"papergraph/application/ports"
)

// SnapshotStore holds the current analysis snapshot behind an atomic
// pointer. Readers always observe either the previous snapshot or the new
// one in full; there is no intermediate state and readers never block the
// writer.
type SnapshotStore struct {
	current atomic.Pointer[ports.Snapshot]
}

// NewSnapshotStore creates an empty store. Current returns nil until the
// first Publish.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the most recently published snapshot, or nil
func (s *SnapshotStore) Current() *ports.Snapshot {
	return s.current.Load()
}

// Publish replaces the current snapshot in one atomic swap
func (s *SnapshotStore) Publish(snapshot *ports.Snapshot) {
	s.current.Store(snapshot)
}
