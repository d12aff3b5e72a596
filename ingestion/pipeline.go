package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/sanitize"
	"github.com/poiesic/recall/storage"
)

// Pipeline orchestrates the embedding production loop: candidate selection,
// sanitization, noise classification, embedding with the fallback ladder,
// and persistence of vectors and bookkeeping records.
type Pipeline struct {
	messages storage.MessageRepository
	sessions storage.SessionRepository
	vectors  storage.VectorIndex
	lexical  storage.LexicalIndex
	healing  *HealingTracker
	client   *embedClient
	pool     *ants.Pool
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if config == nil {
			return errors.New("config must not be nil")
		}
		p.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress sets the writer for progress output.
// Default is io.Discard.
func WithProgress(writer io.Writer) Option {
	return func(p *Pipeline) error {
		if writer == nil {
			writer = io.Discard
		}
		p.progress = writer
		return nil
	}
}

// NewPipeline creates a new embedding pipeline.
func NewPipeline(
	messages storage.MessageRepository,
	sessions storage.SessionRepository,
	records storage.EmbeddingRecordRepository,
	vectors storage.VectorIndex,
	lexical storage.LexicalIndex,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if sessions == nil {
		return nil, ErrSessionRepositoryRequired
	}
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		messages: messages,
		sessions: sessions,
		vectors:  vectors,
		lexical:  lexical,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(p.config.PoolSize)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	p.healing = NewHealingTracker(records, p.config.RetryLimit, p.config.Cooldown)
	p.client = newEmbedClient(provider, p.config.MaxRetries, p.config.RetryDelay, p.logger)

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// RunMessages embeds all pending message-level content. The loop is
// idempotent: already-embedded items and ineligible failures are skipped,
// so re-running after a crash picks up where the last run stopped.
//
// Candidate pages are fetched with an over-fetch factor because noise
// filtering happens after selection. The loop terminates only when a fetch
// returns fewer rows than requested: a page that filters down to zero
// survivors says nothing about the pages behind it.
func (p *Pipeline) RunMessages(ctx context.Context) error {
	fetch := p.config.fetchSize()
	var cursor core.ID
	processed := 0

	tracker := NewProgressTracker(p.progress, 0, p.config.ReportInterval)
	tracker.Start()
	defer tracker.Finish()

	for {
		page, err := p.messages.ListMessages(ctx, cursor, fetch)
		if err != nil {
			return fmt.Errorf("listing messages after %d: %w", cursor, err)
		}
		if len(page) == 0 {
			break
		}
		cursor = page[len(page)-1].Id

		embedded, err := p.processMessagePage(ctx, page)
		if err != nil {
			// Dimension mismatches and cancellation are fatal for the run.
			// Anything else aborts only this batch; the next fetch proceeds.
			if errors.Is(err, core.ErrDimensionMismatch) || ctx.Err() != nil {
				return err
			}
			p.logger.Error("batch failed, continuing with next fetch", "err", err)
		}
		processed += embedded
		tracker.Increment(len(page))

		if len(page) < fetch {
			break
		}

		// One batch in flight at a time; the pause keeps the embedding
		// endpoint from being saturated by back-to-back batches.
		if p.config.BatchDelay > 0 {
			timer := time.NewTimer(p.config.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	p.logger.Info("message embedding pass complete", "embedded", processed)
	return nil
}

// processMessagePage runs one page of candidates through classification and
// embedding. Returns the number of items successfully embedded.
func (p *Pipeline) processMessagePage(ctx context.Context, page []*core.Message) (int, error) {
	now := time.Now().UTC()

	var survivors []*core.Message
	var texts []string

	for _, message := range page {
		skip, err := p.healing.ShouldSkip(ctx, message.Id, core.CollectionMessages, now)
		if err != nil {
			return 0, err
		}
		if skip {
			continue
		}

		cleaned, err := sanitize.Sanitize(message.Contents)
		if err != nil {
			// Content-fatal: nothing embeddable remains. Skipped, not
			// recorded, not retried, not indexed. A write here would be
			// repeated on every rerun since no record marks the item.
			p.logger.Debug("skipping item with no embeddable content", "item", message.Id)
			continue
		}

		// Index into lexical search before embedding: items that later fail
		// the embedding ladder must still be findable by keyword.
		if err := p.indexLexical(ctx, message); err != nil {
			p.logger.Warn("lexical indexing failed", "item", message.Id, "err", err)
		}

		if reason := sanitize.ClassifyNoise(cleaned); reason != sanitize.ReasonNone {
			if err := p.healing.RecordNoise(ctx, message.Id, reason); err != nil {
				return 0, err
			}
			continue
		}

		survivors = append(survivors, message)
		texts = append(texts, cleaned)
	}

	if len(survivors) == 0 {
		return 0, nil
	}

	// The over-fetch compensates for noise filtering, so a page can hold
	// more survivors than one embedding request may carry. Chunk to keep
	// every endpoint call within the configured batch size.
	chunk := p.config.BatchSize
	if chunk <= 0 {
		chunk = len(survivors)
	}
	embedded := 0
	for start := 0; start < len(survivors); start += chunk {
		end := min(start+chunk, len(survivors))
		n, err := p.embedChunk(ctx, survivors[start:end], texts[start:end])
		embedded += n
		if err != nil {
			return embedded, err
		}
	}
	return embedded, nil
}

// embedChunk embeds one endpoint-sized slice of survivors and records the
// per-item outcomes. Returns the number of items successfully embedded.
func (p *Pipeline) embedChunk(ctx context.Context, survivors []*core.Message, texts []string) (int, error) {
	results, err := p.client.embedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	embedded := 0
	for i, result := range results {
		message := survivors[i]

		if result.Err != nil {
			if ai.IsNonFinite(result.Err) {
				if err := p.healing.RecordNonFinite(ctx, message.Id, result.Err.Error()); err != nil {
					return embedded, err
				}
				continue
			}
			return embedded, result.Err
		}

		if err := checkDimensions(result.Vector, p.config.Dimensions); err != nil {
			return embedded, err
		}

		if err := p.storeMessageVector(ctx, message, result, texts[i]); err != nil {
			return embedded, err
		}
		embedded++
	}
	return embedded, nil
}

// storeMessageVector upserts the vector record and its bookkeeping record.
func (p *Pipeline) storeMessageVector(ctx context.Context, message *core.Message, result embedResult, cleaned string) error {
	if result.Detail != "" {
		p.logger.Debug("embedded via fallback", "item", message.Id, "rung", result.Detail)
	}
	record := &core.VectorRecord{
		Id:       message.Id,
		Vector:   core.NormalizeVector(result.Vector),
		Document: result.Text,
		Kind:     core.KindMessage,
		MessageMeta: core.MessageVectorMeta{
			SessionId:     message.SessionId,
			Source:        message.Source,
			Project:       message.Project,
			Path:          message.Path,
			Role:          message.Role,
			Timestamp:     message.Timestamp,
			ContentLength: len(cleaned),
		},
	}
	if err := p.vectors.Upsert(ctx, core.CollectionMessages, record); err != nil {
		return fmt.Errorf("upserting vector for item %d: %w", message.Id, err)
	}

	return p.healing.RecordSuccess(ctx, &core.EmbeddingRecord{
		ItemId:              message.Id,
		Collection:          core.CollectionMessages,
		VectorKey:           strconv.FormatUint(uint64(message.Id), 10),
		Model:               p.config.Model,
		Dimensions:          len(record.Vector),
		ContentCharsAtEmbed: len(cleaned),
	})
}

func (p *Pipeline) indexLexical(ctx context.Context, message *core.Message) error {
	if p.lexical == nil {
		return nil
	}
	return p.lexical.Index(ctx, &storage.LexicalDoc{
		ID:        strconv.FormatUint(uint64(message.Id), 10),
		SessionID: message.SessionId,
		Source:    message.Source,
		Project:   message.Project,
		Path:      message.Path,
		Content:   message.Contents,
		Timestamp: message.Timestamp,
	})
}

// Heal re-offers eligible non-finite failures and removes failure records
// whose source item no longer exists. Returns the number of items healed.
func (p *Pipeline) Heal(ctx context.Context) (int, error) {
	healed := 0
	now := time.Now().UTC()

	err := p.healing.EligibleFailures(ctx, p.config.BatchSize, now, func(record *core.EmbeddingRecord) error {
		message, err := p.messages.GetMessage(ctx, record.ItemId)
		if errors.Is(err, storage.ErrNotFound) {
			// Orphaned failure record; the item was removed upstream.
			return p.healing.records.DeleteRecord(ctx, record.ItemId, core.CollectionUnembeddable)
		}
		if err != nil {
			return err
		}

		embedded, err := p.processMessagePage(ctx, []*core.Message{message})
		if err != nil {
			if errors.Is(err, core.ErrDimensionMismatch) || ctx.Err() != nil {
				return err
			}
			p.logger.Error("healing attempt failed", "item", record.ItemId, "err", err)
			return nil
		}
		healed += embedded
		return nil
	})
	if err != nil {
		return healed, err
	}

	p.logger.Info("healing pass complete", "healed", healed)
	return healed, nil
}
