package driven

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// IndexWriter manages search indices and loads documents into them.
// Index names passed here are physical names.
type IndexWriter interface {
	// IndexExists reports whether the index exists.
	IndexExists(ctx context.Context, name string) (bool, error)

	// DeleteIndex removes an index and all its documents.
	// Returns domain.ErrIndexNotFound if it does not exist.
	DeleteIndex(ctx context.Context, name string) error

	// CreateIndex creates an empty index with the given settings.
	// Returns domain.ErrIndexAlreadyExists if it exists.
	CreateIndex(ctx context.Context, name string, settings domain.IndexSettings) error

	// PutDocument adds a document to an index and returns its ID.
	// Returns domain.ErrFieldLimitExceeded when the document would take the
	// index past its total fields limit.
	PutDocument(ctx context.Context, index string, doc domain.FlatDocument) (string, error)
}

// IndexReader provides read access to indices.
type IndexReader interface {
	// ListIndices returns all indices with their statistics.
	ListIndices(ctx context.Context) ([]domain.IndexInfo, error)

	// Count returns the number of documents in an index.
	Count(ctx context.Context, index string) (int, error)

	// Search returns documents matching the query.
	// Terms of the form field:value match a top-level field exactly; other
	// terms match anywhere in the document body.
	Search(ctx context.Context, index, query string, limit int) ([]domain.SearchHit, error)
}

// IndexStore is a store providing both write and read access.
type IndexStore interface {
	IndexWriter
	IndexReader
	Close() error
}
