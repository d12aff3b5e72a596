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


package badger

import "github.com/poiesic/recall/storage"

// MemoryStores bundles in-memory repositories for testing.
// Caller must call Close when done.
type MemoryStores struct {
	Backend   *Backend
	Messages  storage.MessageRepository
	Sessions  storage.SessionRepository
	Records   storage.EmbeddingRecordRepository
	Centroids storage.CentroidRepository
	Vectors   storage.VectorIndex
}

// Close closes the underlying backend.
func (m *MemoryStores) Close() error {
	return m.Backend.Close()
}

// NewMemoryStores creates in-memory repositories for testing.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	return &MemoryStores{
		Backend:   backend,
		Messages:  NewMessageRepository(backend),
		Sessions:  NewSessionRepository(backend),
		Records:   NewEmbeddingRecordRepository(backend),
		Centroids: NewCentroidRepository(backend),
		Vectors:   NewVectorIndex(backend),
	}, nil
}
