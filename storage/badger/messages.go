package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) *MessageRepository {
	return &MessageRepository{backend: backend}
}

// Close releases repository resources.
func (r *MessageRepository) Close() error {
	return nil
}

// UpsertMessages adds or replaces messages by their content-addressed IDs.
func (r *MessageRepository) UpsertMessages(ctx context.Context, messages ...*core.Message) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, message := range messages {
			if err := core.ValidateMessage(message); err != nil {
				return err
			}
			if message.ContentLength == 0 {
				message.ContentLength = len(message.Contents)
			}
			if message.InsertedAt.IsZero() {
				message.InsertedAt = time.Now().UTC()
			}

			key := makeMessageKey(message.Id)
			if err := tx.Set(key, storage.MarshalMessage(message)); err != nil {
				return err
			}

			sessKey := makeMessageSessionKey(message.SessionId, message.Id)
			if err := tx.Set(sessKey, storage.MarshalID(message.Id)); err != nil {
				return err
			}

			if message.Project != "" {
				projKey := makeMessageProjectKey(message.Project, message.Id)
				if err := tx.Set(projKey, storage.MarshalID(message.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetMessage retrieves a single message by ID.
func (r *MessageRepository) GetMessage(ctx context.Context, id core.ID) (*core.Message, error) {
	var result *core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMessage(tx, makeMessageKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetMessages retrieves multiple messages by their IDs.
func (r *MessageRepository) GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error) {
	var result []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			message, err := readMessage(tx, makeMessageKey(id))
			if err != nil {
				return err
			}
			if message != nil {
				result = append(result, message)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListMessages returns up to limit messages with ID > afterID in ascending
// ID order. Primary keys encode IDs in BigEndian so iteration order is
// numeric ID order.
func (r *MessageRepository) ListMessages(ctx context.Context, afterID core.ID, limit int) ([]*core.Message, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makeMessageKey(afterID)
		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			id := idFromKeySuffix(iter.Item().Key())
			if id <= afterID {
				continue
			}

			var message *core.Message
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				message, err = storage.UnmarshalMessage(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, message)
		}
		return nil
	}, false)

	return results, err
}

// ListSessionMessageIDs returns up to limit message IDs for a session with
// ID > afterID, in ascending ID order.
func (r *MessageRepository) ListSessionMessageIDs(ctx context.Context, sessionID string, afterID core.ID, limit int) ([]core.ID, error) {
	if sessionID == "" {
		return nil, storage.ErrInvalidQuery
	}
	return r.listIndexedIDs(makePartialMessageSessionKey(sessionID), afterID, limit)
}

// ListProjectMessageIDs returns up to limit message IDs for a project with
// ID > afterID, in ascending ID order.
func (r *MessageRepository) ListProjectMessageIDs(ctx context.Context, project string, afterID core.ID, limit int) ([]core.ID, error) {
	if project == "" {
		return nil, storage.ErrInvalidQuery
	}
	return r.listIndexedIDs(makePartialMessageProjectKey(project), afterID, limit)
}

// listIndexedIDs scans a composite index prefix and collects IDs > afterID.
func (r *MessageRepository) listIndexedIDs(prefix []byte, afterID core.ID, limit int) ([]core.ID, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := appendID(append([]byte{}, prefix...), afterID)
		for iter.Seek(startKey); iter.Valid() && len(ids) < limit; iter.Next() {
			id := idFromKeySuffix(iter.Item().Key())
			if id <= afterID {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	}, false)

	return ids, err
}

// readMessage reads a message from the transaction.
func readMessage(tx *badger.Txn, key []byte) (*core.Message, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var message *core.Message
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		message, unmarshalErr = storage.UnmarshalMessage(val)
		return unmarshalErr
	})
	return message, err
}
