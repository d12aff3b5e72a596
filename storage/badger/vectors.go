package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB using a
// brute-force scan over the collection. Fine at conversational-history
// scale; swap in an ANN index behind the same interface if it ever isn't.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{backend: backend}
}

// Close releases index resources.
func (v *VectorIndex) Close() error {
	return nil
}

// Upsert adds or replaces vector records in a collection.
func (v *VectorIndex) Upsert(ctx context.Context, collection string, records ...*core.VectorRecord) error {
	if collection == "" {
		return storage.ErrInvalidQuery
	}
	return v.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateVectorRecord(record); err != nil {
				return err
			}
			key := makeVectorKey(collection, record.Id)
			if err := tx.Set(key, storage.MarshalVectorRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVectors retrieves vectors by ID from a collection.
// Missing IDs are omitted from the result.
func (v *VectorIndex) GetVectors(ctx context.Context, collection string, ids []core.ID) (map[core.ID][]float32, error) {
	result := make(map[core.ID][]float32, len(ids))
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeVectorKey(collection, id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			if err := item.Value(func(val []byte) error {
				record, unmarshalErr := storage.UnmarshalVectorRecord(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				result[id] = record.Vector
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Query returns up to limit records nearest to the query vector, ordered
// by ascending cosine distance.
func (v *VectorIndex) Query(ctx context.Context, collection string, vector []float32, limit int) ([]*storage.VectorHit, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var hits []*storage.VectorHit
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialVectorKey(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			}); err != nil {
				return err
			}

			similarity := core.CosineSimilarity(vector, record.Vector)
			hits = append(hits, &storage.VectorHit{
				Record:   record,
				Distance: 1 - similarity,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(hits, func(a, b *storage.VectorHit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Delete removes records by ID from a collection.
// Deleting missing IDs is not an error.
func (v *VectorIndex) Delete(ctx context.Context, collection string, ids ...core.ID) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(collection, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
