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


package recall

import (
	"log/slog"
	"path/filepath"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/centroid"
	"github.com/poiesic/recall/ingestion"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
	"github.com/poiesic/recall/storage/bleve"
)

// Database bundles the stores and the AI provider behind one handle.
// Construct one per process; the components it hands out share its
// lifecycle and become unusable after Close.
type Database struct {
	backend   *badger.Backend
	messages  storage.MessageRepository
	sessions  storage.SessionRepository
	records   storage.EmbeddingRecordRepository
	centroids storage.CentroidRepository
	vectors   storage.VectorIndex
	lexical   storage.LexicalIndex
	provider  ai.Provider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig replaces the default AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithInMemory opens all stores in memory. Intended for tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the stores rooted at dataPath and connects the AI
// provider. The badger store lives under dataPath/db and the lexical
// index under dataPath/lexical.
func NewDatabase(dataPath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filepath.Join(dataPath, "db"), options.inMemory)
	if err != nil {
		return nil, err
	}

	var lexical storage.LexicalIndex
	if options.inMemory {
		lexical, err = bleve.NewMemoryIndex()
	} else {
		lexical, err = bleve.NewIndex(filepath.Join(dataPath, "lexical"))
	}
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		lexical.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:   backend,
		messages:  badger.NewMessageRepository(backend),
		sessions:  badger.NewSessionRepository(backend),
		records:   badger.NewEmbeddingRecordRepository(backend),
		centroids: badger.NewCentroidRepository(backend),
		vectors:   badger.NewVectorIndex(backend),
		lexical:   lexical,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.lexical.Close(); err != nil {
		db.logger.Error("error closing lexical index", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MessageRepository() storage.MessageRepository {
	return db.messages
}

func (db *Database) SessionRepository() storage.SessionRepository {
	return db.sessions
}

func (db *Database) EmbeddingRecordRepository() storage.EmbeddingRecordRepository {
	return db.records
}

func (db *Database) CentroidRepository() storage.CentroidRepository {
	return db.centroids
}

func (db *Database) VectorIndex() storage.VectorIndex {
	return db.vectors
}

func (db *Database) LexicalIndex() storage.LexicalIndex {
	return db.lexical
}

// NewIngestionPipeline constructs an embedding pipeline over this
// database's stores.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.messages, db.sessions, db.records, db.vectors, db.lexical, db.provider, opts...)
}

// NewAggregator constructs a centroid aggregator over this database's
// stores.
func (db *Database) NewAggregator(opts ...centroid.Option) (*centroid.Aggregator, error) {
	return centroid.NewAggregator(db.messages, db.sessions, db.vectors, db.centroids, opts...)
}

// NewSearcher constructs a hybrid searcher over this database's stores.
func (db *Database) NewSearcher() *search.Searcher {
	composer := search.NewComposer(db.provider.Embedder(), db.centroids)
	return search.NewSearcher(db.vectors, db.lexical, db.sessions, composer)
}
