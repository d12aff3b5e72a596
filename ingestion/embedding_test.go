package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
)

func newTestClient(embedder *mock.Embedder, summarizer *mock.Summarizer) *embedClient {
	provider := mock.NewProviderWithServices(embedder, summarizer)
	return newEmbedClient(provider, 2, time.Millisecond, slog.Default())
}

func nanVector(dim int) []float32 {
	v := make([]float32, dim)
	v[0] = float32(math.NaN())
	return v
}

func TestEmbedBatch_AllFinite(t *testing.T) {
	client := newTestClient(mock.NewEmbedder(), mock.NewSummarizer())

	texts := []string{"first document", "second document"}
	results, err := client.embedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, result := range results {
		require.NoError(t, result.Err)
		assert.Equal(t, texts[i], result.Text)
		assert.Empty(t, result.Detail)
		assert.False(t, core.HasNonFinite(result.Vector))
	}
}

func TestEmbedBatch_ResolvesPoisonedSlotPerItem(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			if text == "poisoned" {
				out[i] = nanVector(8)
			} else {
				out[i] = mock.DeterministicVector(text, 8)
			}
		}
		return out, nil
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	results, err := client.embedBatch(context.Background(), []string{"fine", "poisoned"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Detail)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "per-item", results[1].Detail, "poisoned slot should be re-embedded in isolation")
	assert.False(t, core.HasNonFinite(results[1].Vector))
}

func TestEmbedSingle_EscalatesToSummary(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.HasPrefix(text, "summary:") {
			return mock.DeterministicVector(text, 8), nil
		}
		return nanVector(8), nil
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	result := client.embedSingle(context.Background(), "unstable original text")
	require.NoError(t, result.Err)
	assert.Equal(t, "summarized", result.Detail)
	assert.True(t, strings.HasPrefix(result.Text, "summary:"))
}

func TestEmbedSingle_EscalatesToRephrase(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.HasPrefix(text, "rephrased:") {
			return mock.DeterministicVector(text, 8), nil
		}
		return nanVector(8), nil
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	result := client.embedSingle(context.Background(), "Unstable Original Text")
	require.NoError(t, result.Err)
	assert.Equal(t, "rephrased", result.Detail)
}

func TestEmbedSingle_LadderExhausted(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nanVector(8), nil
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	result := client.embedSingle(context.Background(), "hopeless")
	require.Error(t, result.Err)
	assert.True(t, ai.IsNonFinite(result.Err), "exhausted ladder classifies as non-finite")
}

func TestEmbedBatch_RetriesTransientThenFails(t *testing.T) {
	calls := 0
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		return nil, ai.NewEmbedError(ai.KindTransient, errors.New("service unavailable"))
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	_, err := client.embedBatch(context.Background(), []string{"anything"})
	require.Error(t, err)
	assert.Equal(t, 2, calls, "transient failures use the configured retry budget")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{mock.DeterministicVector("only one", 8)}, nil
	}
	client := newTestClient(embedder, mock.NewSummarizer())

	_, err := client.embedBatch(context.Background(), []string{"one", "two"})
	assert.ErrorContains(t, err, "count mismatch")
}

func TestCheckDimensions(t *testing.T) {
	assert.NoError(t, checkDimensions(make([]float32, 8), 8))
	assert.NoError(t, checkDimensions(make([]float32, 8), 0), "zero config width disables the check")
	assert.ErrorIs(t, checkDimensions(make([]float32, 8), 16), core.ErrDimensionMismatch)
}
