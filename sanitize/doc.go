// Package sanitize normalizes raw conversation text and filters content
// unworthy of embedding.
//
// Sanitize strips control characters and null bytes; ClassifyNoise flags
// boilerplate (tool output, empty results, raw SQL fragments, interrupted
// requests) and trivially short strings. Both are pure functions with no
// side effects, so classification results are stable across runs.
package sanitize
