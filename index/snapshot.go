package index

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/kbase/core"
)

// Snapshot is one published build: the documents and the index built from
// them. Row i of Index is the embedding of Documents[i]. A Snapshot is never
// modified after publication.
type Snapshot struct {
	Version   uint64
	BuildID   uuid.UUID
	BuiltAt   time.Time
	Documents []core.Document
	Index     *FlatIndex
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Documents)
}

// Holder publishes snapshots to concurrent readers.
// Readers call Current; a single writer at a time calls Publish.
type Holder struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
	version uint64
	now     func() time.Time
}

// NewHolder creates an empty holder. Current returns nil until the first
// Publish.
func NewHolder() *Holder {
	return &Holder{now: time.Now}
}

// Current returns the published snapshot, or nil before the first build.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Publish makes docs and idx the current snapshot. The documents slice is
// copied so later changes by the caller are not visible to readers.
func (h *Holder) Publish(docs []core.Document, idx *FlatIndex) (*Snapshot, error) {
	if idx == nil {
		return nil, ErrNilIndex
	}
	if len(docs) != idx.Len() {
		return nil, fmt.Errorf("%d documents, %d rows: %w", len(docs), idx.Len(), ErrMisaligned)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.version++
	snap := &Snapshot{
		Version:   h.version,
		BuildID:   uuid.New(),
		BuiltAt:   h.now(),
		Documents: append([]core.Document(nil), docs...),
		Index:     idx,
	}
	h.current.Store(snap)
	return snap, nil
}
