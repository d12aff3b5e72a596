package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/sanitize"
	"github.com/poiesic/recall/storage"
)

// RunSessions embeds one vector per session over its concatenated transcript.
// Sessions whose transcript length matches the record from the previous run
// are considered fresh and skipped. Long transcripts are summarized before
// embedding. Sessions are processed concurrently; a failure in one session
// does not stop the others.
func (p *Pipeline) RunSessions(ctx context.Context) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatal error
	embedded := 0

	cursor := ""
	for {
		page, err := p.sessions.ListSessions(ctx, cursor, p.config.BatchSize)
		if err != nil {
			return fmt.Errorf("listing sessions after %q: %w", cursor, err)
		}
		if len(page) == 0 {
			break
		}
		cursor = page[len(page)-1].Id

		for _, session := range page {
			session := session
			wg.Add(1)
			err := p.pool.Submit(func() {
				defer wg.Done()
				ok, err := p.embedSession(ctx, session)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if errors.Is(err, core.ErrDimensionMismatch) || ctx.Err() != nil {
						if fatal == nil {
							fatal = err
						}
						return
					}
					p.logger.Error("session embedding failed", "session", session.Id, "err", err)
					return
				}
				if ok {
					embedded++
				}
			})
			if err != nil {
				wg.Done()
				wg.Wait()
				return err
			}
		}
		wg.Wait()

		if fatal != nil {
			return fatal
		}
		if len(page) < p.config.BatchSize {
			break
		}
	}

	p.logger.Info("session embedding pass complete", "embedded", embedded)
	return nil
}

// embedSession embeds a single session transcript. Returns true when a new
// vector was produced, false when the session was skipped.
func (p *Pipeline) embedSession(ctx context.Context, session *core.Session) (bool, error) {
	anchor := core.SessionAnchorID(session.Id)
	now := time.Now().UTC()

	transcript, err := p.buildTranscript(ctx, session.Id)
	if err != nil {
		return false, err
	}

	// Staleness check: a prior record embedded at the same transcript length
	// means no new content has arrived since.
	existing, err := p.healing.records.GetRecord(ctx, anchor, core.CollectionSessions)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	if existing != nil && existing.ContentCharsAtEmbed == len(transcript) {
		return false, nil
	}

	// Only the failure record gates here. A prior success record must not:
	// the anchor is re-embedded whenever the transcript has grown past the
	// length captured at the last embed.
	skip, err := p.healing.ShouldSkipFailure(ctx, anchor, now)
	if err != nil {
		return false, err
	}
	if skip {
		return false, nil
	}

	cleaned, err := sanitize.Sanitize(transcript)
	if err != nil {
		return false, nil
	}
	if reason := sanitize.ClassifyNoise(cleaned); reason != sanitize.ReasonNone {
		return false, p.healing.RecordNoise(ctx, anchor, reason)
	}

	text := cleaned
	summarized := false
	if len(cleaned) > p.config.SummarizeOver {
		summary, err := p.client.summarize(ctx, cleaned)
		if err != nil {
			return false, fmt.Errorf("summarizing session %s: %w", session.Id, err)
		}
		text = summary
		summarized = true
	}

	results, err := p.client.embedBatch(ctx, []string{text})
	if err != nil {
		return false, err
	}
	result := results[0]
	if result.Err != nil {
		if ai.IsNonFinite(result.Err) {
			return false, p.healing.RecordNonFinite(ctx, anchor, result.Err.Error())
		}
		return false, result.Err
	}
	if err := checkDimensions(result.Vector, p.config.Dimensions); err != nil {
		return false, err
	}

	record := &core.VectorRecord{
		Id:       anchor,
		Vector:   core.NormalizeVector(result.Vector),
		Document: result.Text,
		Kind:     core.KindSession,
		SessionMeta: core.SessionVectorMeta{
			SessionId:     session.Id,
			Source:        session.Source,
			Project:       session.Project,
			Path:          session.Path,
			Title:         session.Title,
			ContentLength: len(transcript),
			Summarized:    summarized,
		},
	}
	if err := p.vectors.Upsert(ctx, core.CollectionSessions, record); err != nil {
		return false, fmt.Errorf("upserting session vector for %s: %w", session.Id, err)
	}

	err = p.healing.RecordSuccess(ctx, &core.EmbeddingRecord{
		ItemId:              anchor,
		Collection:          core.CollectionSessions,
		VectorKey:           session.Id,
		Model:               p.config.Model,
		Dimensions:          len(record.Vector),
		ContentCharsAtEmbed: len(transcript),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// buildTranscript concatenates a session's messages in ascending ID order
// into one role-prefixed document.
func (p *Pipeline) buildTranscript(ctx context.Context, sessionID string) (string, error) {
	var b strings.Builder
	var cursor core.ID

	for {
		ids, err := p.messages.ListSessionMessageIDs(ctx, sessionID, cursor, p.config.BatchSize)
		if err != nil {
			return "", err
		}
		if len(ids) == 0 {
			break
		}
		cursor = ids[len(ids)-1]

		messages, err := p.messages.GetMessages(ctx, ids...)
		if err != nil {
			return "", err
		}
		for _, message := range messages {
			b.WriteString(message.Role.String())
			b.WriteString(": ")
			b.WriteString(message.Contents)
			b.WriteByte('\n')
		}

		if len(ids) < p.config.BatchSize {
			break
		}
	}
	return b.String(), nil
}
