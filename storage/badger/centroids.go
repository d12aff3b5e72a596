package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// CentroidRepository implements storage.CentroidRepository for BadgerDB.
type CentroidRepository struct {
	backend *Backend
}

var _ storage.CentroidRepository = (*CentroidRepository)(nil)

// NewCentroidRepository creates a new CentroidRepository.
func NewCentroidRepository(backend *Backend) *CentroidRepository {
	return &CentroidRepository{backend: backend}
}

// Close releases repository resources.
func (r *CentroidRepository) Close() error {
	return nil
}

// UpsertCentroid adds or replaces the centroid for (Kind, ScopeId).
func (r *CentroidRepository) UpsertCentroid(ctx context.Context, centroid *core.Centroid) error {
	if centroid.ScopeId == "" || len(centroid.Vector) == 0 {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if centroid.ComputedAt.IsZero() {
			centroid.ComputedAt = time.Now().UTC()
		}
		key := makeCentroidKey(centroid.Kind, centroid.ScopeId)
		if err := tx.Set(key, storage.MarshalCentroid(centroid)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetCentroid retrieves the centroid for a scope.
func (r *CentroidRepository) GetCentroid(ctx context.Context, kind core.ScopeKind, scopeID string) (*core.Centroid, error) {
	var result *core.Centroid
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCentroidKey(kind, scopeID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalCentroid(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}
