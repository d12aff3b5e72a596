package recall

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.MessageRepository())
		assert.NotNil(t, db.SessionRepository())
		assert.NotNil(t, db.EmbeddingRecordRepository())
		assert.NotNil(t, db.CentroidRepository())
		assert.NotNil(t, db.VectorIndex())
		assert.NotNil(t, db.LexicalIndex())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = NewDatabase(tmpDir)
		require.NoError(t, err)
		assert.NoError(t, db.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file where the data directory should be.
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(filepath.Join(tmpFile, "db"))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.NoError(t, db.Close())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithInMemory())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create aggregator", func(t *testing.T) {
		aggregator, err := db.NewAggregator()
		require.NoError(t, err)
		require.NotNil(t, aggregator)
		aggregator.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		assert.NotNil(t, db.NewSearcher())
	})
}
