package openai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const cacheTTL = 2 * time.Hour

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Results are cached in an in-process LRU so re-embedding runs don't pay
// for unchanged content.
type Embedder struct {
	embedder embeddings.Embedder
	cache    *expirable.LRU[string, []float32]
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	var cache *expirable.LRU[string, []float32]
	if config.CacheSize > 0 {
		cache = expirable.NewLRU[string, []float32](config.CacheSize, nil, cacheTTL)
	}

	return &Embedder{
		embedder: embedder,
		cache:    cache,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	results := make([][]float32, len(texts))

	// Pull cache hits first and batch only the misses.
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if e.cache != nil {
			if vector, ok := e.cache.Get(text); ok {
				results[i] = vector
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, missTexts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(missTexts), "err", err)
		return nil, classifyEmbedError(ctx, err)
	}
	if len(vectors) != len(missTexts) {
		return nil, ai.NewEmbedError(ai.KindTransient,
			errors.New("embedding service returned wrong result count"))
	}

	for j, vector := range vectors {
		results[missIdx[j]] = vector
		if e.cache != nil {
			e.cache.Add(missTexts[j], vector)
		}
	}
	return results, nil
}

// classifyEmbedError assigns an error kind to an embedding API failure.
// Cancelled or timed-out contexts are fatal for this run; everything else
// from the transport is assumed retryable.
func classifyEmbedError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return ai.NewEmbedError(ai.KindFatal, err)
	}
	return ai.NewEmbedError(ai.KindTransient, err)
}
