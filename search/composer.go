package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DefaultDampening scales negative exemplar centroids before subtraction.
// Full-strength negative weights over-suppress relevant results, so the
// subtraction side of the composition is deliberately asymmetric.
const DefaultDampening = 0.2

// ErrNothingToCompose is returned when a request carries no query text and
// none of its exemplars resolved to a stored centroid.
var ErrNothingToCompose = errors.New("nothing to compose a query vector from")

// Composer builds a single unit query vector from free text and weighted
// centroid exemplars, Rocchio style.
type Composer struct {
	embedder  ai.Embedder
	centroids storage.CentroidRepository
	dampening float64
	logger    *slog.Logger
}

// NewComposer creates a query vector composer.
func NewComposer(embedder ai.Embedder, centroids storage.CentroidRepository) *Composer {
	return &Composer{
		embedder:  embedder,
		centroids: centroids,
		dampening: DefaultDampening,
		logger:    slog.Default().With("component", "query-composer"),
	}
}

// Compose builds the query vector for a request.
//
// The composition starts from the query embedding, or a zero vector when
// only exemplars are given. The negative query embedding is subtracted at
// full strength; positive exemplar centroids are added scaled by their
// weights; negative exemplar centroids are subtracted scaled by weight and
// dampening. Exemplars whose centroid does not exist are dropped silently:
// a missing centroid is not a query error. Mixing vector widths is a
// configuration fault and aborts the call.
func (c *Composer) Compose(ctx context.Context, req *Request) ([]float32, error) {
	var composed []float32

	if req.Query != "" {
		vector, err := c.embedder.EmbedText(ctx, req.Query)
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		composed = scaled(vector, 1)
	}

	if req.NegativeQuery != "" {
		vector, err := c.embedder.EmbedText(ctx, req.NegativeQuery)
		if err != nil {
			return nil, fmt.Errorf("embedding negative query: %w", err)
		}
		composed, err = accumulate(composed, vector, -1)
		if err != nil {
			return nil, err
		}
	}

	var err error
	composed, err = c.addExemplars(ctx, composed, core.ScopeSession, parseExemplars(req.LikeSessions), 1)
	if err != nil {
		return nil, err
	}
	composed, err = c.addExemplars(ctx, composed, core.ScopeSession, parseExemplars(req.UnlikeSessions), -c.dampening)
	if err != nil {
		return nil, err
	}
	composed, err = c.addExemplars(ctx, composed, core.ScopeProject, parseExemplars(req.LikeProjects), 1)
	if err != nil {
		return nil, err
	}
	composed, err = c.addExemplars(ctx, composed, core.ScopeProject, parseExemplars(req.UnlikeProjects), -c.dampening)
	if err != nil {
		return nil, err
	}

	if composed == nil || core.IsZeroVector(composed) {
		return nil, ErrNothingToCompose
	}
	return core.NormalizeVector(composed), nil
}

// addExemplars folds each resolvable exemplar centroid into the running
// composition, scaled by the exemplar weight and the given sign factor.
func (c *Composer) addExemplars(ctx context.Context, composed []float32, kind core.ScopeKind, exemplars []core.WeightedExemplar, factor float64) ([]float32, error) {
	for _, exemplar := range exemplars {
		centroid, err := c.centroids.GetCentroid(ctx, kind, exemplar.Id)
		if errors.Is(err, storage.ErrNotFound) {
			c.logger.Debug("exemplar has no centroid, dropping", "id", exemplar.Id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving exemplar %q: %w", exemplar.Id, err)
		}

		composed, err = accumulate(composed, centroid.Vector, exemplar.Weight*factor)
		if err != nil {
			return nil, fmt.Errorf("exemplar %q: %w", exemplar.Id, err)
		}
	}
	return composed, nil
}

// accumulate adds weight*vector into sum, allocating sum on first use.
func accumulate(sum, vector []float32, weight float64) ([]float32, error) {
	if sum == nil {
		return scaled(vector, weight), nil
	}
	if len(sum) != len(vector) {
		return nil, fmt.Errorf("%w: %d vs %d", core.ErrDimensionMismatch, len(sum), len(vector))
	}
	for i, v := range vector {
		sum[i] += float32(weight * float64(v))
	}
	return sum, nil
}

func scaled(vector []float32, weight float64) []float32 {
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = float32(weight * float64(v))
	}
	return out
}
