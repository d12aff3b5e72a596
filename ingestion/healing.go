package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// HealingTracker persists embedding failures and decides when a failed item
// may be offered as a candidate again.
//
// Per item and collection the tracker encodes a three-state machine:
// pending -> embedded | noise-excluded | nan-failed. Only nan-failed cycles
// back to pending, gated by the eligibility predicate; noise exclusions and
// successful embeddings are terminal.
type HealingTracker struct {
	records    storage.EmbeddingRecordRepository
	retryLimit int
	cooldown   time.Duration
	logger     *slog.Logger
}

// NewHealingTracker creates a tracker over the given record repository.
func NewHealingTracker(records storage.EmbeddingRecordRepository, retryLimit int, cooldown time.Duration) *HealingTracker {
	return &HealingTracker{
		records:    records,
		retryLimit: retryLimit,
		cooldown:   cooldown,
		logger:     slog.Default().With("component", "healing-tracker"),
	}
}

// ShouldSkip reports whether an item should be excluded from candidate
// selection for a collection: already embedded there, permanently excluded
// as noise, or failed too recently or too often.
func (h *HealingTracker) ShouldSkip(ctx context.Context, itemID core.ID, collection string, now time.Time) (bool, error) {
	_, err := h.records.GetRecord(ctx, itemID, collection)
	if err == nil {
		return true, nil // already embedded
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	return h.ShouldSkipFailure(ctx, itemID, now)
}

// ShouldSkipFailure reports whether an item's failure record alone excludes
// it, ignoring any success record. Callers whose item content can grow
// after a successful embedding, such as session anchors, use this instead
// of ShouldSkip so a prior success does not block a re-embed.
func (h *HealingTracker) ShouldSkipFailure(ctx context.Context, itemID core.ID, now time.Time) (bool, error) {
	failure, err := h.records.GetRecord(ctx, itemID, core.CollectionUnembeddable)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil // pending
	}
	if err != nil {
		return false, err
	}
	return !h.Eligible(failure, now), nil
}

// Eligible reports whether a failure record may be retried at time now.
// Noise exclusions are never eligible.
func (h *HealingTracker) Eligible(record *core.EmbeddingRecord, now time.Time) bool {
	if record.FailureReason != core.FailureNonFinite {
		return false
	}
	if record.RetryCount >= h.retryLimit {
		return false
	}
	return now.Sub(record.UpdatedAt) > h.cooldown
}

// RecordNoise writes a permanent noise exclusion for an item.
// The retry count stays at zero: noise is never retried.
func (h *HealingTracker) RecordNoise(ctx context.Context, itemID core.ID, reason string) error {
	h.logger.Debug("excluding item as noise", "item", itemID, "reason", reason)
	return h.records.UpsertRecord(ctx, &core.EmbeddingRecord{
		ItemId:        itemID,
		Collection:    core.CollectionUnembeddable,
		FailureReason: core.FailureNoise,
		FailureDetail: reason,
	})
}

// RecordNonFinite writes or refreshes a non-finite failure record,
// incrementing the retry count past the first attempt.
func (h *HealingTracker) RecordNonFinite(ctx context.Context, itemID core.ID, detail string) error {
	retryCount := 0
	existing, err := h.records.GetRecord(ctx, itemID, core.CollectionUnembeddable)
	if err == nil && existing.FailureReason == core.FailureNonFinite {
		retryCount = existing.RetryCount + 1
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	h.logger.Debug("recording non-finite failure", "item", itemID, "retries", retryCount, "detail", detail)
	return h.records.UpsertRecord(ctx, &core.EmbeddingRecord{
		ItemId:        itemID,
		Collection:    core.CollectionUnembeddable,
		FailureReason: core.FailureNonFinite,
		FailureDetail: detail,
		RetryCount:    retryCount,
	})
}

// RecordSuccess upserts the successful embedding record and clears any
// failure record for the item. An item holds a success record XOR a
// failure record, never both.
func (h *HealingTracker) RecordSuccess(ctx context.Context, record *core.EmbeddingRecord) error {
	record.FailureReason = core.FailureNone
	record.FailureDetail = ""
	if err := h.records.UpsertRecord(ctx, record); err != nil {
		return err
	}
	return h.records.DeleteRecord(ctx, record.ItemId, core.CollectionUnembeddable)
}

// EligibleFailures streams failure records that may be retried now, in
// pages, invoking fn for each eligible record. Used by healing runs to
// re-offer old non-finite failures without scanning the whole item space.
func (h *HealingTracker) EligibleFailures(ctx context.Context, pageSize int, now time.Time, fn func(*core.EmbeddingRecord) error) error {
	var cursor core.ID
	for {
		page, err := h.records.ListFailureRecords(ctx, cursor, pageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, record := range page {
			cursor = record.ItemId
			if !h.Eligible(record, now) {
				continue
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		if len(page) < pageSize {
			return nil
		}
	}
}
