// Package bleve provides the Bleve implementation of storage.LexicalIndex.
package bleve

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/poiesic/recall/storage"
)

// Index implements storage.LexicalIndex using Bleve.
type Index struct {
	index bleve.Index
}

var _ storage.LexicalIndex = (*Index)(nil)

func indexMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries match
	// the exact word typed; English stemming folds technical terms together.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("session_id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("project", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("path", keywordFieldMapping)

	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping

	return im
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// opened and reused so indexing stays incremental across runs. If the
// mapping changes in code, remove the index directory to force a rebuild.
func NewIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open lexical index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create lexical index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewMemoryIndex creates an in-memory Bleve index for testing.
func NewMemoryIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create lexical index: %w", err)
	}
	return &Index{index: index}, nil
}

// Index adds or updates a document by its ID.
func (b *Index) Index(ctx context.Context, doc *storage.LexicalDoc) error {
	if doc == nil || doc.ID == "" {
		return storage.ErrInvalidQuery
	}
	return b.index.Index(doc.ID, doc)
}

// Delete removes a document from the index.
func (b *Index) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Search runs a ranked match query over all fields and returns up to limit
// hits, best-ranked first.
func (b *Index) Search(ctx context.Context, query string, limit int) ([]*storage.LexicalHit, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}

	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("lexical search failed: %w", err)
	}

	hits := make([]*storage.LexicalHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, &storage.LexicalHit{
			Doc:   docFromFields(hit.ID, hit.Fields),
			Score: hit.Score,
		})
	}
	return hits, nil
}

// Close closes the Bleve index.
func (b *Index) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of documents in the index.
func (b *Index) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// docFromFields rebuilds a LexicalDoc from the stored fields of a hit.
func docFromFields(id string, fields map[string]any) *storage.LexicalDoc {
	doc := &storage.LexicalDoc{ID: id}
	if v, ok := fields["session_id"].(string); ok {
		doc.SessionID = v
	}
	if v, ok := fields["source"].(string); ok {
		doc.Source = v
	}
	if v, ok := fields["project"].(string); ok {
		doc.Project = v
	}
	if v, ok := fields["path"].(string); ok {
		doc.Path = v
	}
	if v, ok := fields["title"].(string); ok {
		doc.Title = v
	}
	if v, ok := fields["content"].(string); ok {
		doc.Content = v
	}
	if v, ok := fields["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			doc.Timestamp = ts
		}
	}
	return doc
}
