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


// Package ai provides abstractions for the AI services used by recall.
//
// This package defines interfaces for text embeddings and summarization.
// It follows the dependency inversion principle, allowing the indexing and
// search logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Summarizer: condenses and reformulates text for the fallback ladder
//   - Provider: aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Error Classification
//
// Embedding failures carry an ErrorKind so callers branch on the failure
// class rather than matching error strings:
//
//	_, err := embedder.EmbedText(ctx, text)
//	if ai.IsTransient(err) {
//	    // retry with backoff
//	}
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewEmbedder, mock.NewSummarizer) return concrete types to enable
// behavior injection and call-count assertions.
package ai
