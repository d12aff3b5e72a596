package sanitize

import (
	"regexp"
	"strings"
)

// MinEmbedLength is the minimum text length worth embedding. Anything
// shorter carries too little signal to be a useful semantic anchor.
const MinEmbedLength = 50

// Noise classification reasons, stored as failure detail on exclusion
// records.
const (
	ReasonNone        = ""
	ReasonTooShort    = "too-short"
	ReasonToolOutput  = "tool-output"
	ReasonEmptyResult = "empty-result"
	ReasonSQLFragment = "sql-fragment"
	ReasonInterrupted = "interrupted"
)

var (
	toolOutputRe  = regexp.MustCompile(`(?i)^\s*(<tool_result>|\[tool_result\]|<function_results>|tool_use_id[:=])`)
	emptyResultRe = regexp.MustCompile(`(?i)^\s*(\(no (results?|output|matches)( found)?\)|no (results?|matches) found\.?|\[empty\]|null|\{\}|\[\])\s*$`)
	sqlFragmentRe = regexp.MustCompile(`(?i)^\s*(CREATE (TABLE|INDEX|VIEW)|ALTER TABLE|DROP (TABLE|INDEX)|INSERT INTO|SELECT .* FROM|UPDATE .+ SET|DELETE FROM)\b`)
	interruptedRe = regexp.MustCompile(`(?i)\[(request|tool use) (was )?interrupted( by (the )?user)?\]`)
)

// ClassifyNoise returns the reason text is unworthy of embedding, or
// ReasonNone for embeddable content. Pure and deterministic: the same input
// always yields the same verdict.
//
// Noise exclusions are permanent, there is no retry schedule, so the
// rules err on the side of keeping content.
func ClassifyNoise(text string) string {
	trimmed := strings.TrimSpace(text)

	// The empty-result check runs before the length check so markers like
	// "(no results found)" get the more specific reason.
	if emptyResultRe.MatchString(trimmed) {
		return ReasonEmptyResult
	}
	if len(trimmed) < MinEmbedLength {
		return ReasonTooShort
	}
	if toolOutputRe.MatchString(trimmed) {
		return ReasonToolOutput
	}
	if sqlFragmentRe.MatchString(trimmed) {
		return ReasonSQLFragment
	}
	if interruptedRe.MatchString(trimmed) {
		return ReasonInterrupted
	}
	return ReasonNone
}

// IsNoise reports whether ClassifyNoise finds any reason.
func IsNoise(text string) bool {
	return ClassifyNoise(text) != ReasonNone
}
