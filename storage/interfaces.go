package storage

import (
	"context"
	"time"

	"github.com/poiesic/recall/core"
)

// MessageRepository provides operations for managing messages.
// Implementations must be thread-safe and support concurrent access.
type MessageRepository interface {
	// UpsertMessages adds or replaces messages by their content-addressed IDs.
	// Sets InsertedAt and ContentLength if not already set.
	UpsertMessages(ctx context.Context, messages ...*core.Message) error

	// GetMessage retrieves a single message by ID.
	// Returns ErrNotFound if the message doesn't exist.
	GetMessage(ctx context.Context, id core.ID) (*core.Message, error)

	// GetMessages retrieves multiple messages by their IDs.
	// Returns only the messages that exist (no error for missing messages).
	GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error)

	// ListMessages returns up to limit messages with ID > afterID, in
	// ascending ID order. Cursor pagination stays correct under concurrent
	// inserts, unlike offset pagination.
	ListMessages(ctx context.Context, afterID core.ID, limit int) ([]*core.Message, error)

	// ListSessionMessageIDs returns up to limit message IDs belonging to a
	// session with ID > afterID, in ascending ID order.
	ListSessionMessageIDs(ctx context.Context, sessionID string, afterID core.ID, limit int) ([]core.ID, error)

	// ListProjectMessageIDs returns up to limit message IDs belonging to a
	// project with ID > afterID, in ascending ID order.
	ListProjectMessageIDs(ctx context.Context, project string, afterID core.ID, limit int) ([]core.ID, error)

	// Close releases repository resources.
	Close() error
}

// SessionRepository provides operations for managing sessions.
type SessionRepository interface {
	// UpsertSessions adds or replaces sessions by ID, refreshing UpdatedAt.
	UpsertSessions(ctx context.Context, sessions ...*core.Session) error

	// GetSession retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id string) (*core.Session, error)

	// ListSessions returns up to limit sessions with ID > afterID, in
	// ascending ID order.
	ListSessions(ctx context.Context, afterID string, limit int) ([]*core.Session, error)

	// ListProjects returns the distinct project names across all sessions.
	ListProjects(ctx context.Context) ([]string, error)

	// Close releases repository resources.
	Close() error
}

// EmbeddingRecordRepository persists the relationship between items and
// vector-store collections, including failure bookkeeping. Records are
// keyed by (item, collection) and upserted, never duplicated.
type EmbeddingRecordRepository interface {
	// UpsertRecord adds or replaces the record for (record.ItemId,
	// record.Collection), refreshing UpdatedAt.
	UpsertRecord(ctx context.Context, record *core.EmbeddingRecord) error

	// GetRecord retrieves the record for an (item, collection) pair.
	// Returns ErrNotFound if no record exists.
	GetRecord(ctx context.Context, itemID core.ID, collection string) (*core.EmbeddingRecord, error)

	// DeleteRecord removes the record for an (item, collection) pair.
	// Deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, itemID core.ID, collection string) error

	// ListFailureRecords returns up to limit failure records (sentinel
	// collection) with ItemId > afterID, in ascending item ID order.
	ListFailureRecords(ctx context.Context, afterID core.ID, limit int) ([]*core.EmbeddingRecord, error)

	// Close releases repository resources.
	Close() error
}

// CentroidRepository persists per-scope centroids, upserted by scope.
type CentroidRepository interface {
	// UpsertCentroid adds or replaces the centroid for (centroid.Kind,
	// centroid.ScopeId).
	UpsertCentroid(ctx context.Context, centroid *core.Centroid) error

	// GetCentroid retrieves the centroid for a scope.
	// Returns ErrNotFound if no centroid has been computed.
	GetCentroid(ctx context.Context, kind core.ScopeKind, scopeID string) (*core.Centroid, error)

	// Close releases repository resources.
	Close() error
}

// VectorHit is one nearest-neighbour result from the vector index.
type VectorHit struct {
	Record *core.VectorRecord

	// Distance is the cosine distance (1 - similarity) to the query vector.
	Distance float32
}

// VectorIndex stores embedding vectors by collection and supports
// nearest-neighbour queries. Writes are idempotent upserts keyed by ID, so
// at-least-once delivery across stores is self-healing on the next run.
type VectorIndex interface {
	// Upsert adds or replaces vector records in a collection.
	// Records are validated before write.
	Upsert(ctx context.Context, collection string, records ...*core.VectorRecord) error

	// GetVectors retrieves vectors by ID from a collection.
	// Missing IDs are omitted from the result, not errors.
	GetVectors(ctx context.Context, collection string, ids []core.ID) (map[core.ID][]float32, error)

	// Query returns up to limit records nearest to the query vector,
	// ordered by ascending distance.
	Query(ctx context.Context, collection string, vector []float32, limit int) ([]*VectorHit, error)

	// Delete removes records by ID from a collection.
	// Deleting missing IDs is not an error.
	Delete(ctx context.Context, collection string, ids ...core.ID) error

	// Close releases index resources.
	Close() error
}

// LexicalDoc is one text document in the lexical index.
// JSON tags name the index fields.
type LexicalDoc struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Source    string    `json:"source"`
	Project   string    `json:"project"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LexicalHit is one ranked full-text result.
type LexicalHit struct {
	Doc   *LexicalDoc
	Score float64
}

// LexicalIndex provides ranked full-text search over message documents.
type LexicalIndex interface {
	// Index adds or updates a document by its ID.
	Index(ctx context.Context, doc *LexicalDoc) error

	// Delete removes a document from the index.
	Delete(ctx context.Context, id string) error

	// Search runs a ranked text query and returns up to limit hits,
	// best-ranked first.
	Search(ctx context.Context, query string, limit int) ([]*LexicalHit, error)

	// Close releases index resources.
	Close() error
}
