package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/storage"
)

// VectorRepository implements storage.VectorCache for BadgerDB.
type VectorRepository struct {
	backend    *Backend
	ownBackend bool
}

var _ storage.VectorCache = (*VectorRepository)(nil)

// NewVectorRepository creates a vector cache on an open backend.
// Closing the repository leaves the backend open.
func NewVectorRepository(backend *Backend) *VectorRepository {
	return &VectorRepository{backend: backend}
}

// OpenVectorCache opens an on-disk vector cache in dir. A nil logger means
// slog.Default(). Closing the returned cache closes the database.
func OpenVectorCache(dir string, logger *slog.Logger) (*VectorRepository, error) {
	backend, err := OpenBackendWithLogger(dir, false, logger)
	if err != nil {
		return nil, err
	}
	return &VectorRepository{backend: backend, ownBackend: true}, nil
}

// Close closes the underlying database when the repository opened it.
func (r *VectorRepository) Close() error {
	if r.ownBackend && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

func (r *VectorRepository) check(ctx context.Context, model string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if model == "" {
		return storage.ErrModelRequired
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// GetVectors returns the cached vectors among ids.
func (r *VectorRepository) GetVectors(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error) {
	if err := r.check(ctx, model); err != nil {
		return nil, err
	}

	found := make(map[core.ID][]float32, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if _, seen := found[id]; seen {
				continue
			}
			item, err := tx.Get(makeVectorKey(model, id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				vec, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				found[id] = vec
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// PutVectors stores vectors for model.
func (r *VectorRepository) PutVectors(ctx context.Context, model string, vectors map[core.ID][]float32) error {
	if err := r.check(ctx, model); err != nil {
		return err
	}
	if len(vectors) == 0 {
		return nil
	}
	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for id, vec := range vectors {
			if err := wb.Set(makeVectorKey(model, id), storage.MarshalVector(vec)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of vectors cached for model.
func (r *VectorRepository) Count(ctx context.Context, model string) (int, error) {
	if err := r.check(ctx, model); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeModelVectorPrefix(model)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Purge removes every vector and the manifest of model.
func (r *VectorRepository) Purge(ctx context.Context, model string) error {
	if err := r.check(ctx, model); err != nil {
		return err
	}
	if err := r.backend.DropPrefix(makeModelVectorPrefix(model)); err != nil {
		return err
	}
	return r.backend.DropPrefix(makeManifestKey(model))
}
