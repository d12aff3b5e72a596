// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies embedding failures so callers can branch on the
// failure class instead of matching error strings.
type ErrorKind int

const (
	// KindTransient marks failures worth retrying: network errors, timeouts,
	// overloaded backends.
	KindTransient ErrorKind = iota + 1
	// KindNonFinite marks embeddings that came back containing NaN or Inf
	// values. Retrying the same input verbatim will not help; the fallback
	// ladder (summarize, rephrase) might.
	KindNonFinite
	// KindFatal marks failures that no retry or reformulation will fix:
	// misconfiguration, cancelled contexts, empty input.
	KindFatal
)

// EmbedError wraps an embedding failure with its classification.
type EmbedError struct {
	Kind ErrorKind
	Err  error
}

func (e *EmbedError) Error() string {
	switch e.Kind {
	case KindTransient:
		return fmt.Sprintf("transient embedding failure: %v", e.Err)
	case KindNonFinite:
		return fmt.Sprintf("non-finite embedding values: %v", e.Err)
	default:
		return fmt.Sprintf("embedding failure: %v", e.Err)
	}
}

func (e *EmbedError) Unwrap() error {
	return e.Err
}

// NewEmbedError wraps err with the given kind.
func NewEmbedError(kind ErrorKind, err error) *EmbedError {
	return &EmbedError{Kind: kind, Err: err}
}

// KindOf extracts the classification from an error chain.
// Unclassified errors report KindFatal.
func KindOf(err error) ErrorKind {
	var embedErr *EmbedError
	if errors.As(err, &embedErr) {
		return embedErr.Kind
	}
	return KindFatal
}

// IsTransient reports whether the error chain carries KindTransient.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

// IsNonFinite reports whether the error chain carries KindNonFinite.
func IsNonFinite(err error) bool {
	return KindOf(err) == KindNonFinite
}
