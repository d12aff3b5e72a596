package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// EmbeddingRecordRepository implements storage.EmbeddingRecordRepository
// for BadgerDB. Records are keyed by (collection, item) so failure records
// in the sentinel collection can be scanned with a single prefix.
type EmbeddingRecordRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRecordRepository = (*EmbeddingRecordRepository)(nil)

// NewEmbeddingRecordRepository creates a new EmbeddingRecordRepository.
func NewEmbeddingRecordRepository(backend *Backend) *EmbeddingRecordRepository {
	return &EmbeddingRecordRepository{backend: backend}
}

// Close releases repository resources.
func (r *EmbeddingRecordRepository) Close() error {
	return nil
}

// UpsertRecord adds or replaces the record for (ItemId, Collection).
func (r *EmbeddingRecordRepository) UpsertRecord(ctx context.Context, record *core.EmbeddingRecord) error {
	if record.ItemId == 0 || record.Collection == "" {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record.UpdatedAt = time.Now().UTC()
		key := makeEmbedRecordKey(record.ItemId, record.Collection)
		if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves the record for an (item, collection) pair.
func (r *EmbeddingRecordRepository) GetRecord(ctx context.Context, itemID core.ID, collection string) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbedRecordKey(itemID, collection))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalEmbeddingRecord(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// DeleteRecord removes the record for an (item, collection) pair.
// Deleting a missing record is not an error.
func (r *EmbeddingRecordRepository) DeleteRecord(ctx context.Context, itemID core.ID, collection string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeEmbedRecordKey(itemID, collection)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListFailureRecords returns up to limit sentinel-collection records with
// ItemId > afterID, in ascending item ID order.
func (r *EmbeddingRecordRepository) ListFailureRecords(ctx context.Context, afterID core.ID, limit int) ([]*core.EmbeddingRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	prefix := makePartialEmbedRecordKey(core.CollectionUnembeddable)

	var results []*core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := appendID(append([]byte{}, prefix...), afterID)
		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			id := idFromKeySuffix(iter.Item().Key())
			if id <= afterID {
				continue
			}

			var record *core.EmbeddingRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)

	return results, err
}
