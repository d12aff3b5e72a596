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


// Package storage provides the storage abstraction layer for recall.
//
// This package defines repository and index interfaces that decouple storage
// implementation from business logic. It allows different backends (BadgerDB,
// Bleve, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backend
// implementations:
//
//	repos, err := badger.NewRepositories(path)  // returns storage interfaces
//
// Internal package constructors (newBackend, etc.) may return concrete types
// since they're only used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - MessageRepository: operations for messages
//   - SessionRepository: operations for sessions
//   - EmbeddingRecordRepository: item-to-collection bookkeeping
//   - CentroidRepository: per-scope centroid vectors
//   - VectorIndex: nearest-neighbour vector search
//   - LexicalIndex: ranked full-text search
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
