package ingestion

import "time"

// Config holds configuration for the embedding production loop.
type Config struct {
	// BatchSize is the number of items to embed in each batch.
	BatchSize int

	// OverFetch is the fetch multiplier applied to BatchSize when selecting
	// candidates. Noise filtering happens after selection, so fetching
	// extra keeps batches close to full.
	OverFetch float64

	// MaxRetries is the maximum number of attempts for transient embedding
	// API failures.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration

	// BatchDelay is the fixed pause between batches, to avoid overwhelming
	// the model-serving endpoint.
	BatchDelay time.Duration

	// RetryLimit bounds how many times a non-finite failure is re-attempted
	// across healing runs.
	RetryLimit int

	// Cooldown is the minimum age of a non-finite failure record before the
	// item becomes a candidate again.
	Cooldown time.Duration

	// SummarizeOver is the transcript length in chars above which a session
	// is summarized before embedding instead of embedded whole.
	SummarizeOver int

	// Dimensions is the expected embedding vector width. Vectors of any
	// other width abort the run.
	Dimensions int

	// Model is the embedding model identifier recorded on embedding records.
	Model string

	// PoolSize is the number of concurrent session embedding workers.
	PoolSize int

	// ReportInterval is how often to report progress (number of items).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		OverFetch:      1.3,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		BatchDelay:     100 * time.Millisecond,
		RetryLimit:     3,
		Cooldown:       7 * 24 * time.Hour,
		SummarizeOver:  6000,
		Dimensions:     768,
		Model:          "nomic-embed-text",
		PoolSize:       4,
		ReportInterval: 100,
	}
}

// fetchSize is BatchSize scaled by the over-fetch factor.
func (c *Config) fetchSize() int {
	size := int(float64(c.BatchSize) * c.OverFetch)
	if size < c.BatchSize {
		size = c.BatchSize
	}
	return size
}
