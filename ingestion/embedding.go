package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
)

// embedResult is the per-item outcome of a batch embedding.
// Exactly one of Vector or Err is set.
type embedResult struct {
	// Vector is the finite, unnormalized embedding on success.
	Vector []float32

	// Text is the text that was actually embedded. It differs from the
	// input when the fallback ladder substituted a summary or rephrasing.
	Text string

	// Detail names the ladder rung that produced the vector: "", "per-item",
	// "summarized", or "rephrased".
	Detail string

	// Err is set when every rung of the ladder failed for this item.
	Err error
}

// embedClient wraps an embedder and summarizer with the escalation ladder
// for numerically unstable content: batch -> per-item -> summarized ->
// rephrased. Transient API failures are retried with backoff at each rung.
type embedClient struct {
	embedder   ai.Embedder
	summarizer ai.Summarizer
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

func newEmbedClient(provider ai.Provider, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *embedClient {
	return &embedClient{
		embedder:   provider.Embedder(),
		summarizer: provider.Summarizer(),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger.With("component", "embed-client"),
	}
}

// embedBatch embeds texts as one batch and resolves non-finite results
// item by item. The returned slice is aligned with the input. A non-nil
// error means the whole batch failed and nothing should be recorded
// against individual items.
func (c *embedClient) embedBatch(ctx context.Context, texts []string) ([]embedResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	err := RetryTransient(ctx, func() error {
		var embedErr error
		vectors, embedErr = c.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, c.maxRetries, c.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("batch embedding failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(vectors))
	}

	results := make([]embedResult, len(texts))
	for i, vector := range vectors {
		if !core.HasNonFinite(vector) {
			results[i] = embedResult{Vector: vector, Text: texts[i]}
			continue
		}
		// A poisoned item can destabilize a whole batch response, so each
		// non-finite slot is resolved in isolation.
		results[i] = c.embedSingle(ctx, texts[i])
	}
	return results, nil
}

// embedSingle walks the per-item escalation ladder for one text.
func (c *embedClient) embedSingle(ctx context.Context, text string) embedResult {
	vector, err := c.embedOne(ctx, text)
	if err != nil {
		return embedResult{Text: text, Err: err}
	}
	if !core.HasNonFinite(vector) {
		return embedResult{Vector: vector, Text: text, Detail: "per-item"}
	}
	c.logger.Debug("per-item embedding still non-finite, summarizing", "chars", len(text))

	summary, err := c.summarizer.Summarize(ctx, text)
	if err != nil {
		return embedResult{Text: text, Err: nonFinite("summarization failed: %v", err)}
	}
	vector, err = c.embedOne(ctx, summary)
	if err != nil {
		return embedResult{Text: summary, Err: err}
	}
	if !core.HasNonFinite(vector) {
		return embedResult{Vector: vector, Text: summary, Detail: "summarized"}
	}
	c.logger.Debug("summarized embedding still non-finite, rephrasing")

	rephrased, err := c.summarizer.Rephrase(ctx, summary)
	if err != nil {
		return embedResult{Text: summary, Err: nonFinite("rephrasing failed: %v", err)}
	}
	vector, err = c.embedOne(ctx, rephrased)
	if err != nil {
		return embedResult{Text: rephrased, Err: err}
	}
	if !core.HasNonFinite(vector) {
		return embedResult{Vector: vector, Text: rephrased, Detail: "rephrased"}
	}

	return embedResult{Text: rephrased, Err: nonFinite("non-finite values survived the fallback ladder")}
}

// summarize condenses a long transcript before session-level embedding.
func (c *embedClient) summarize(ctx context.Context, text string) (string, error) {
	var summary string
	err := RetryTransient(ctx, func() error {
		var sumErr error
		summary, sumErr = c.summarizer.Summarize(ctx, text)
		return sumErr
	}, c.maxRetries, c.retryDelay)
	if err != nil {
		return "", err
	}
	return summary, nil
}

func (c *embedClient) embedOne(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := RetryTransient(ctx, func() error {
		var embedErr error
		vector, embedErr = c.embedder.EmbedText(ctx, text)
		return embedErr
	}, c.maxRetries, c.retryDelay)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func nonFinite(format string, args ...any) error {
	return ai.NewEmbedError(ai.KindNonFinite, fmt.Errorf(format, args...))
}

// checkDimensions verifies a vector has the configured width.
// A mismatch is a configuration fault that must abort the run rather than
// be coerced or skipped.
func checkDimensions(vector []float32, want int) error {
	if want > 0 && len(vector) != want {
		return fmt.Errorf("%w: expected %d dimensions, got %d",
			core.ErrDimensionMismatch, want, len(vector))
	}
	return nil
}
