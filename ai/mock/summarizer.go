package mock

import (
	"context"
	"strings"
)

// Summarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type Summarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default truncating behavior.
	SummarizeFunc func(ctx context.Context, text string) (string, error)

	// RephraseFunc is called by Rephrase if set.
	// If nil, uses default lowercasing behavior.
	RephraseFunc func(ctx context.Context, text string) (string, error)

	callCount int
}

// NewSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize returns a deterministic shortened version of the text.
func (m *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}

	words := strings.Fields(text)
	if len(words) > 20 {
		words = words[:20]
	}
	return "summary: " + strings.Join(words, " "), nil
}

// Rephrase returns a deterministic reformulation of the text.
func (m *Summarizer) Rephrase(ctx context.Context, text string) (string, error) {
	m.callCount++

	if m.RephraseFunc != nil {
		return m.RephraseFunc(ctx, text)
	}

	return "rephrased: " + strings.ToLower(strings.Join(strings.Fields(text), " ")), nil
}

// CallCount returns the number of times any method was called.
func (m *Summarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *Summarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
	m.RephraseFunc = nil
}
