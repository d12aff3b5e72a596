package centroid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// ErrNoSourceVectors is returned when a scope has no embedded vectors to
// aggregate. The scope keeps its previous centroid, if any.
var ErrNoSourceVectors = errors.New("no source vectors in scope")

// Aggregator computes unit-normalized mean vectors over the message
// embeddings of a session or project. Centroids are recomputed wholesale
// on each run, never updated incrementally.
type Aggregator struct {
	messages  storage.MessageRepository
	sessions  storage.SessionRepository
	vectors   storage.VectorIndex
	centroids storage.CentroidRepository
	pool      *ants.Pool
	pageSize  int
	logger    *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithPageSize sets the pagination size for streaming scope vectors.
// Default is 500.
func WithPageSize(size int) Option {
	return func(a *Aggregator) error {
		if size <= 0 {
			return errors.New("page size must be positive")
		}
		a.pageSize = size
		return nil
	}
}

// WithPoolSize sets the number of concurrent scope workers for ComputeAll.
// Default is 4. Scopes are independent: each reads only its own items and
// writes only its own centroid row, so no extra locking is needed.
func WithPoolSize(size int) Option {
	return func(a *Aggregator) error {
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAggregator creates a centroid aggregator.
func NewAggregator(
	messages storage.MessageRepository,
	sessions storage.SessionRepository,
	vectors storage.VectorIndex,
	centroids storage.CentroidRepository,
	opts ...Option,
) (*Aggregator, error) {
	if messages == nil {
		return nil, errors.New("message repository required")
	}
	if sessions == nil {
		return nil, errors.New("session repository required")
	}
	if vectors == nil {
		return nil, errors.New("vector index required")
	}
	if centroids == nil {
		return nil, errors.New("centroid repository required")
	}

	a := &Aggregator{
		messages:  messages,
		sessions:  sessions,
		vectors:   vectors,
		centroids: centroids,
		pageSize:  500,
		logger:    slog.Default().With("component", "centroid-aggregator"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.pool == nil {
		pool, err := ants.NewPool(4)
		if err != nil {
			return nil, err
		}
		a.pool = pool
	}
	return a, nil
}

// Release releases the worker pool.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// ComputeSession computes and stores the centroid over one session's
// message vectors. Returns ErrNoSourceVectors when the session has no
// embedded messages.
func (a *Aggregator) ComputeSession(ctx context.Context, sessionID string) (*core.Centroid, error) {
	return a.compute(ctx, core.ScopeSession, sessionID, func(afterID core.ID) ([]core.ID, error) {
		return a.messages.ListSessionMessageIDs(ctx, sessionID, afterID, a.pageSize)
	})
}

// ComputeProject computes and stores the centroid over the message vectors
// of every session in a project.
func (a *Aggregator) ComputeProject(ctx context.Context, project string) (*core.Centroid, error) {
	return a.compute(ctx, core.ScopeProject, project, func(afterID core.ID) ([]core.ID, error) {
		return a.messages.ListProjectMessageIDs(ctx, project, afterID, a.pageSize)
	})
}

// compute streams a scope's message IDs in ascending order, fetches each
// page's vectors, and accumulates an element-wise running sum. Pagination
// cursors past the last-seen ID rather than by offset, so concurrent
// inserts elsewhere cannot cause duplication or omission within the scope.
//
// Items whose vectors are absent (not yet embedded, or excluded as noise)
// are tolerated: only vectors actually retrieved are counted.
func (a *Aggregator) compute(ctx context.Context, kind core.ScopeKind, scopeID string, page func(afterID core.ID) ([]core.ID, error)) (*core.Centroid, error) {
	var sum []float64
	count := 0

	var cursor core.ID
	for {
		ids, err := page(cursor)
		if err != nil {
			return nil, fmt.Errorf("listing scope items for %q: %w", scopeID, err)
		}
		if len(ids) == 0 {
			break
		}
		cursor = ids[len(ids)-1]

		retrieved, err := a.vectors.GetVectors(ctx, core.CollectionMessages, ids)
		if err != nil {
			return nil, fmt.Errorf("fetching vectors for %q: %w", scopeID, err)
		}

		for _, id := range ids {
			vector, ok := retrieved[id]
			if !ok {
				continue
			}
			if sum == nil {
				sum = make([]float64, len(vector))
			}
			if len(vector) != len(sum) {
				return nil, fmt.Errorf("%w: scope %q mixes %d and %d dimensional vectors",
					core.ErrDimensionMismatch, scopeID, len(sum), len(vector))
			}
			for i, v := range vector {
				sum[i] += float64(v)
			}
			count++
		}

		if len(ids) < a.pageSize {
			break
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoSourceVectors, scopeName(kind), scopeID)
	}

	mean := make([]float32, len(sum))
	for i, v := range sum {
		mean[i] = float32(v / float64(count))
	}

	centroid := &core.Centroid{
		Kind:        kind,
		ScopeId:     scopeID,
		Vector:      core.NormalizeVector(mean),
		SourceCount: count,
		ComputedAt:  time.Now().UTC(),
	}
	if err := a.centroids.UpsertCentroid(ctx, centroid); err != nil {
		return nil, fmt.Errorf("storing centroid for %q: %w", scopeID, err)
	}

	a.logger.Debug("computed centroid", "kind", scopeName(kind), "scope", scopeID, "sources", count)
	return centroid, nil
}

// ComputeAll recomputes centroids for every known session and project.
// Scopes are processed concurrently; a failure in one scope is logged and
// does not block the others. Returns the number of centroids stored.
func (a *Aggregator) ComputeAll(ctx context.Context) (int, error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	stored := 0

	submit := func(run func() (*core.Centroid, error), kind, scope string) error {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			_, err := run()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, ErrNoSourceVectors) {
					a.logger.Error("centroid computation failed", "kind", kind, "scope", scope, "err", err)
				}
				return
			}
			stored++
		})
		if err != nil {
			wg.Done()
		}
		return err
	}

	cursor := ""
	for {
		page, err := a.sessions.ListSessions(ctx, cursor, a.pageSize)
		if err != nil {
			wg.Wait()
			return stored, err
		}
		if len(page) == 0 {
			break
		}
		cursor = page[len(page)-1].Id

		for _, session := range page {
			sessionID := session.Id
			err := submit(func() (*core.Centroid, error) {
				return a.ComputeSession(ctx, sessionID)
			}, "session", sessionID)
			if err != nil {
				wg.Wait()
				return stored, err
			}
		}
		if len(page) < a.pageSize {
			break
		}
	}

	projects, err := a.sessions.ListProjects(ctx)
	if err != nil {
		wg.Wait()
		return stored, err
	}
	for _, project := range projects {
		project := project
		err := submit(func() (*core.Centroid, error) {
			return a.ComputeProject(ctx, project)
		}, "project", project)
		if err != nil {
			wg.Wait()
			return stored, err
		}
	}

	wg.Wait()
	a.logger.Info("centroid pass complete", "stored", stored)
	return stored, nil
}

func scopeName(kind core.ScopeKind) string {
	switch kind {
	case core.ScopeSession:
		return "session"
	case core.ScopeProject:
		return "project"
	default:
		return "unknown"
	}
}
