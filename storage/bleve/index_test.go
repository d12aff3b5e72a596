package bleve

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDoc(id, sessionID, content string) *storage.LexicalDoc {
	return &storage.LexicalDoc{
		ID:        id,
		SessionID: sessionID,
		Source:    "claude",
		Project:   "infra",
		Path:      "/home/user/infra",
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func TestIndex_IndexAndSearch(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, newTestDoc("1", "session-a", "rotating database credentials with vault")))
	require.NoError(t, idx.Index(ctx, newTestDoc("2", "session-b", "debugging a flaky integration test")))

	hits, err := idx.Search(ctx, "credentials", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].Doc.ID)
	assert.Equal(t, "session-a", hits[0].Doc.SessionID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestIndex_SearchNoStemming(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, newTestDoc("1", "session-a", "bayesian inference over hyperparameters")))

	// Standard analyzer: "bayes" should not match "bayesian".
	hits, err := idx.Search(ctx, "bayes", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "bayesian", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_IndexIsUpsert(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, newTestDoc("1", "session-a", "original wording about kubernetes")))
	require.NoError(t, idx.Index(ctx, newTestDoc("1", "session-a", "replacement wording about terraform")))

	hits, err := idx.Search(ctx, "kubernetes", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "terraform", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndex_Delete(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, newTestDoc("1", "session-a", "ephemeral content to remove")))
	require.NoError(t, idx.Delete(ctx, "1"))

	hits, err := idx.Search(ctx, "ephemeral", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_RejectsInvalidInput(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()
	assert.ErrorIs(t, idx.Index(ctx, nil), storage.ErrInvalidQuery)
	assert.ErrorIs(t, idx.Index(ctx, &storage.LexicalDoc{}), storage.ErrInvalidQuery)

	_, err = idx.Search(ctx, "anything", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
