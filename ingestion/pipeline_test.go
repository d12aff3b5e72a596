package ingestion

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	badgerstore "github.com/poiesic/recall/storage/badger"
	blevestore "github.com/poiesic/recall/storage/bleve"
)

type pipelineFixture struct {
	stores   *badgerstore.MemoryStores
	lexical  *blevestore.Index
	provider *mock.Provider
	pipeline *Pipeline
}

func newPipelineFixture(t *testing.T, config *Config) *pipelineFixture {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	lexical, err := blevestore.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { lexical.Close() })

	provider := mock.NewProvider().(*mock.Provider)

	if config == nil {
		config = DefaultConfig()
	}
	config.Dimensions = 8 // mock embedder width
	config.RetryDelay = time.Millisecond
	config.BatchDelay = 0

	pipeline, err := NewPipeline(
		stores.Messages, stores.Sessions, stores.Records,
		stores.Vectors, lexical, provider,
		WithConfig(config),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineFixture{
		stores:   stores,
		lexical:  lexical,
		provider: provider,
		pipeline: pipeline,
	}
}

func testMessage(t *testing.T, sessionID string, seq int, contents string) *core.Message {
	t.Helper()
	return &core.Message{
		Id:        core.MessageID(sessionID, seq, contents),
		SessionId: sessionID,
		Role:      core.RoleHuman,
		Contents:  contents,
		Source:    "test-source",
		Project:   "test-project",
		Path:      "/logs/" + sessionID + ".jsonl",
		Timestamp: time.Now().UTC().Add(-time.Hour),
	}
}

const embeddableText = "We decided to use a write-ahead log for the ingest path because replaying it after a crash is cheaper than rebuilding the index from scratch."

func TestNewPipeline_RequiresDependencies(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	provider := mock.NewProvider()

	_, err = NewPipeline(nil, stores.Sessions, stores.Records, stores.Vectors, nil, provider)
	assert.ErrorIs(t, err, ErrMessageRepositoryRequired)

	_, err = NewPipeline(stores.Messages, nil, stores.Records, stores.Vectors, nil, provider)
	assert.ErrorIs(t, err, ErrSessionRepositoryRequired)

	_, err = NewPipeline(stores.Messages, stores.Sessions, nil, stores.Vectors, nil, provider)
	assert.ErrorIs(t, err, ErrRecordRepositoryRequired)

	_, err = NewPipeline(stores.Messages, stores.Sessions, stores.Records, nil, nil, provider)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewPipeline(stores.Messages, stores.Sessions, stores.Records, stores.Vectors, nil, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestRunMessages_EmbedsSurvivors(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	messages := []*core.Message{
		testMessage(t, "sess-1", 0, embeddableText),
		testMessage(t, "sess-1", 1, embeddableText+" The replay window is bounded by the checkpoint interval."),
	}
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, messages...))

	require.NoError(t, f.pipeline.RunMessages(ctx))

	for _, message := range messages {
		vectors, err := f.stores.Vectors.GetVectors(ctx, core.CollectionMessages, []core.ID{message.Id})
		require.NoError(t, err)
		require.Contains(t, vectors, message.Id, "message %d should be embedded", message.Id)

		record, err := f.stores.Records.GetRecord(ctx, message.Id, core.CollectionMessages)
		require.NoError(t, err)
		assert.Equal(t, 8, record.Dimensions)
		assert.Equal(t, core.FailureNone, record.FailureReason)
		assert.Equal(t, len(message.Contents), record.ContentCharsAtEmbed)
	}

	// Lexical index is populated as part of the same pass.
	hits, err := f.lexical.Search(ctx, "write-ahead log", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}

// batchSizeRecorder tracks the largest text slice handed to the embedding
// endpoint in one call.
type batchSizeRecorder struct {
	*mock.Embedder
	maxBatch int
}

func (r *batchSizeRecorder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) > r.maxBatch {
		r.maxBatch = len(texts)
	}
	return r.Embedder.EmbedTexts(ctx, texts)
}

type recordingProvider struct {
	embedder   *batchSizeRecorder
	summarizer *mock.Summarizer
}

func (p *recordingProvider) Embedder() ai.Embedder     { return p.embedder }
func (p *recordingProvider) Summarizer() ai.Summarizer { return p.summarizer }
func (p *recordingProvider) Close() error              { return nil }

func TestRunMessages_BoundsEmbeddingBatchSize(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	lexical, err := blevestore.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { lexical.Close() })

	recorder := &batchSizeRecorder{Embedder: mock.NewEmbedder()}
	provider := &recordingProvider{embedder: recorder, summarizer: mock.NewSummarizer()}

	config := DefaultConfig()
	config.BatchSize = 10
	config.Dimensions = 8
	config.RetryDelay = time.Millisecond
	config.BatchDelay = 0

	pipeline, err := NewPipeline(
		stores.Messages, stores.Sessions, stores.Records,
		stores.Vectors, lexical, provider,
		WithConfig(config),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	ctx := context.Background()

	// The candidate over-fetch can fill a page past the batch size when few
	// items are filtered as noise. The endpoint must still see at most
	// BatchSize texts per call.
	var messages []*core.Message
	for i := 0; i < 13; i++ {
		messages = append(messages, testMessage(t, "sess-1", i,
			embeddableText+" Checkpoint intervals differ across deployments, this is variant number "+string(rune('a'+i))+"."))
	}
	require.NoError(t, stores.Messages.UpsertMessages(ctx, messages...))

	require.NoError(t, pipeline.RunMessages(ctx))

	assert.LessOrEqual(t, recorder.maxBatch, config.BatchSize)
	for _, message := range messages {
		vectors, err := stores.Vectors.GetVectors(ctx, core.CollectionMessages, []core.ID{message.Id})
		require.NoError(t, err)
		assert.Contains(t, vectors, message.Id)
	}
}

// countingLexicalIndex tracks how many documents were written.
type countingLexicalIndex struct {
	storage.LexicalIndex
	indexed int
}

func (c *countingLexicalIndex) Index(ctx context.Context, doc *storage.LexicalDoc) error {
	c.indexed++
	return c.LexicalIndex.Index(ctx, doc)
}

func TestRunMessages_ContentFatalItemsAreNeverIndexed(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	lexical, err := blevestore.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { lexical.Close() })
	counting := &countingLexicalIndex{LexicalIndex: lexical}

	provider := mock.NewProvider().(*mock.Provider)

	config := DefaultConfig()
	config.Dimensions = 8
	config.RetryDelay = time.Millisecond
	config.BatchDelay = 0

	pipeline, err := NewPipeline(
		stores.Messages, stores.Sessions, stores.Records,
		stores.Vectors, counting, provider,
		WithConfig(config),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	ctx := context.Background()

	// An item with nothing left after sanitization gets no record, so it is
	// re-fetched as a candidate every run. Those runs must stay write-free.
	fatal := testMessage(t, "sess-1", 0, "\x00\x01\x02\x7f")
	clean := testMessage(t, "sess-1", 1, embeddableText)
	require.NoError(t, stores.Messages.UpsertMessages(ctx, fatal, clean))

	require.NoError(t, pipeline.RunMessages(ctx))
	require.NoError(t, pipeline.RunMessages(ctx))

	assert.Equal(t, 1, counting.indexed, "only the clean item, indexed on the first run")

	_, err = stores.Records.GetRecord(ctx, fatal.Id, core.CollectionMessages)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = stores.Records.GetRecord(ctx, fatal.Id, core.CollectionUnembeddable)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunMessages_Idempotent(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, testMessage(t, "sess-1", 0, embeddableText)))

	require.NoError(t, f.pipeline.RunMessages(ctx))
	calls := f.provider.GetEmbedder().CallCount()
	require.Greater(t, calls, 0)

	// Second run finds a success record for everything and never reaches
	// the embedder.
	require.NoError(t, f.pipeline.RunMessages(ctx))
	assert.Equal(t, calls, f.provider.GetEmbedder().CallCount())
}

func TestRunMessages_NoiseExcludedPermanently(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	noise := testMessage(t, "sess-1", 0, "ok")
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, noise))

	require.NoError(t, f.pipeline.RunMessages(ctx))

	record, err := f.stores.Records.GetRecord(ctx, noise.Id, core.CollectionUnembeddable)
	require.NoError(t, err)
	assert.Equal(t, core.FailureNoise, record.FailureReason)
	assert.Equal(t, 0, record.RetryCount)

	vectors, err := f.stores.Vectors.GetVectors(ctx, core.CollectionMessages, []core.ID{noise.Id})
	require.NoError(t, err)
	assert.NotContains(t, vectors, noise.Id)

	// Noise is terminal: healing never re-offers it.
	healed, err := f.pipeline.Heal(ctx)
	require.NoError(t, err)
	assert.Zero(t, healed)
}

func TestRunMessages_NonFiniteParkedForHealing(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	message := testMessage(t, "sess-1", 0, embeddableText)
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, message))

	poisoned := func(dim int) []float32 {
		v := make([]float32, dim)
		v[0] = float32(math.NaN())
		return v
	}
	embedder := f.provider.GetEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = poisoned(8)
		}
		return out, nil
	}
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return poisoned(8), nil
	}

	require.NoError(t, f.pipeline.RunMessages(ctx))

	record, err := f.stores.Records.GetRecord(ctx, message.Id, core.CollectionUnembeddable)
	require.NoError(t, err)
	assert.Equal(t, core.FailureNonFinite, record.FailureReason)

	// The item stays lexically searchable even though embedding failed.
	hits, err := f.lexical.Search(ctx, "write-ahead", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}

func TestRunMessages_DimensionMismatchAborts(t *testing.T) {
	config := DefaultConfig()
	f := newPipelineFixture(t, config)
	f.pipeline.config.Dimensions = 16 // mock produces 8

	ctx := context.Background()
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, testMessage(t, "sess-1", 0, embeddableText)))

	err := f.pipeline.RunMessages(ctx)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestHeal_RecoversEligibleFailure(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = 0
	f := newPipelineFixture(t, config)
	ctx := context.Background()

	message := testMessage(t, "sess-1", 0, embeddableText)
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, message))

	embedder := f.provider.GetEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			v := make([]float32, 8)
			v[0] = float32(math.Inf(1))
			out[i] = v
		}
		return out, nil
	}
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		v := make([]float32, 8)
		v[0] = float32(math.Inf(1))
		return v, nil
	}

	require.NoError(t, f.pipeline.RunMessages(ctx))
	_, err := f.stores.Records.GetRecord(ctx, message.Id, core.CollectionUnembeddable)
	require.NoError(t, err, "expected a parked failure record")

	// The provider recovers; the next healing pass should succeed.
	embedder.EmbedTextsFunc = nil
	embedder.EmbedTextFunc = nil
	time.Sleep(10 * time.Millisecond) // let the cooldown clock tick

	healed, err := f.pipeline.Heal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, healed)

	vectors, err := f.stores.Vectors.GetVectors(ctx, core.CollectionMessages, []core.ID{message.Id})
	require.NoError(t, err)
	assert.Contains(t, vectors, message.Id)

	_, err = f.stores.Records.GetRecord(ctx, message.Id, core.CollectionUnembeddable)
	assert.Error(t, err, "failure record should be cleared after success")
}

func TestHeal_RemovesOrphanedRecords(t *testing.T) {
	config := DefaultConfig()
	config.Cooldown = 0
	f := newPipelineFixture(t, config)
	ctx := context.Background()

	orphan := core.ID(424242)
	require.NoError(t, f.stores.Records.UpsertRecord(ctx, &core.EmbeddingRecord{
		ItemId:        orphan,
		Collection:    core.CollectionUnembeddable,
		FailureReason: core.FailureNonFinite,
	}))
	time.Sleep(10 * time.Millisecond)

	healed, err := f.pipeline.Heal(ctx)
	require.NoError(t, err)
	assert.Zero(t, healed)

	_, err = f.stores.Records.GetRecord(ctx, orphan, core.CollectionUnembeddable)
	assert.Error(t, err, "orphaned failure record should be deleted")
}

func TestRunSessions_EmbedsTranscript(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	session := &core.Session{
		Id:      "sess-1",
		Source:  "test-source",
		Project: "test-project",
		Title:   "ingest design discussion",
	}
	require.NoError(t, f.stores.Sessions.UpsertSessions(ctx, session))
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx,
		testMessage(t, "sess-1", 0, embeddableText),
		testMessage(t, "sess-1", 1, "Agreed, and the checkpoint interval should be configurable per deployment."),
	))

	require.NoError(t, f.pipeline.RunSessions(ctx))

	anchor := core.SessionAnchorID("sess-1")
	vectors, err := f.stores.Vectors.GetVectors(ctx, core.CollectionSessions, []core.ID{anchor})
	require.NoError(t, err)
	require.Contains(t, vectors, anchor)

	record, err := f.stores.Records.GetRecord(ctx, anchor, core.CollectionSessions)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", record.VectorKey)
	assert.Greater(t, record.ContentCharsAtEmbed, 0)
}

func TestRunSessions_SkipsFreshSessions(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.stores.Sessions.UpsertSessions(ctx, &core.Session{Id: "sess-1", Source: "s"}))
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, testMessage(t, "sess-1", 0, embeddableText)))

	require.NoError(t, f.pipeline.RunSessions(ctx))
	calls := f.provider.GetEmbedder().CallCount()

	anchor := core.SessionAnchorID("sess-1")
	first, err := f.stores.Records.GetRecord(ctx, anchor, core.CollectionSessions)
	require.NoError(t, err)

	// No new messages since the last run: transcript length matches the
	// record and the session is skipped.
	require.NoError(t, f.pipeline.RunSessions(ctx))
	assert.Equal(t, calls, f.provider.GetEmbedder().CallCount())

	// New content invalidates the staleness check. The prior success record
	// for the anchor must not block the re-embed.
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx,
		testMessage(t, "sess-1", 1, "One more decision: retention defaults to ninety days unless overridden.")))
	require.NoError(t, f.pipeline.RunSessions(ctx))
	assert.Greater(t, f.provider.GetEmbedder().CallCount(), calls)

	grown, err := f.stores.Records.GetRecord(ctx, anchor, core.CollectionSessions)
	require.NoError(t, err)
	assert.Greater(t, grown.ContentCharsAtEmbed, first.ContentCharsAtEmbed)
}

func TestRunSessions_SummarizesLongTranscripts(t *testing.T) {
	config := DefaultConfig()
	config.SummarizeOver = 40
	f := newPipelineFixture(t, config)
	ctx := context.Background()

	require.NoError(t, f.stores.Sessions.UpsertSessions(ctx, &core.Session{Id: "sess-1", Source: "s"}))
	require.NoError(t, f.stores.Messages.UpsertMessages(ctx, testMessage(t, "sess-1", 0, embeddableText)))

	require.NoError(t, f.pipeline.RunSessions(ctx))
	assert.Greater(t, f.provider.GetSummarizer().CallCount(), 0)

	anchor := core.SessionAnchorID("sess-1")
	vectors, err := f.stores.Vectors.GetVectors(ctx, core.CollectionSessions, []core.ID{anchor})
	require.NoError(t, err)
	require.Contains(t, vectors, anchor)

	hits, err := f.stores.Vectors.Query(ctx, core.CollectionSessions, vectors[anchor], 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].Record.SessionMeta.Summarized)
}
