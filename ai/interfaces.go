package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer condenses and reformulates conversation text. It backs the
// fallback ladder for content the embedding model cannot handle directly:
// first a summary is embedded in place of the original, then a rephrasing
// of the summary.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize produces a condensed version of the text that preserves its
	// topical content.
	Summarize(ctx context.Context, text string) (string, error)

	// Rephrase rewrites the text in plain prose, stripping formatting and
	// unusual tokens that trip up embedding models.
	Rephrase(ctx context.Context, text string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
