package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) *SessionRepository {
	return &SessionRepository{backend: backend}
}

// Close releases repository resources.
func (r *SessionRepository) Close() error {
	return nil
}

// UpsertSessions adds or replaces sessions by ID, refreshing UpdatedAt.
func (r *SessionRepository) UpsertSessions(ctx context.Context, sessions ...*core.Session) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, session := range sessions {
			if err := core.ValidateSession(session); err != nil {
				return err
			}
			session.UpdatedAt = time.Now().UTC()
			if session.StartedAt.IsZero() {
				session.StartedAt = session.UpdatedAt
			}

			key := makeSessionKey(session.Id)
			if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSession retrieves a session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSessionKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalSession(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// ListSessions returns up to limit sessions with ID > afterID, in ascending
// ID order. Session IDs are strings, so order is lexicographic.
func (r *SessionRepository) ListSessions(ctx context.Context, afterID string, limit int) ([]*core.Session, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makeSessionKey(afterID)
		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			if slices.Compare(iter.Item().Key(), startKey) <= 0 {
				continue
			}

			var session *core.Session
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				session, err = storage.UnmarshalSession(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, session)
		}
		return nil
	}, false)

	return results, err
}

// ListProjects returns the distinct project names across all sessions.
func (r *SessionRepository) ListProjects(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var session *core.Session
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				session, err = storage.UnmarshalSession(val)
				return err
			}); err != nil {
				return err
			}
			if session.Project != "" {
				seen[session.Project] = true
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	projects := make([]string, 0, len(seen))
	for project := range seen {
		projects = append(projects, project)
	}
	slices.Sort(projects)
	return projects, nil
}
