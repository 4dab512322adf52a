package storage

import (
	"context"
	"time"

	"github.com/poiesic/kbase/core"
)

// VectorCache persists passage embeddings between builds.
// Entries are keyed by embedding model and content ID (core.IDFromContent of
// the passage text); vectors from different models never mix.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// GetVectors returns the cached vectors among ids. Missing entries are
	// simply absent from the result.
	GetVectors(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error)

	// PutVectors stores vectors, replacing existing entries.
	PutVectors(ctx context.Context, model string, vectors map[core.ID][]float32) error

	// Count returns the number of vectors cached for model.
	Count(ctx context.Context, model string) (int, error)

	// Purge removes every vector and the manifest cached for model.
	Purge(ctx context.Context, model string) error

	// SaveManifest records the last successful build for a model.
	SaveManifest(ctx context.Context, manifest *BuildManifest) error

	// LoadManifest returns the last build recorded for model, or nil, nil if
	// there is none.
	LoadManifest(ctx context.Context, model string) (*BuildManifest, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// BuildManifest describes one published index build.
type BuildManifest struct {
	Model     string
	BuildID   string
	Version   uint64
	Documents int
	Dimension int
	BuiltAt   time.Time
}
