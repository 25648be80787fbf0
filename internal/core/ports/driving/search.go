package driving

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// SearchService queries the rebuilt indices.
type SearchService interface {
	// Search runs a query against one logical index.
	Search(ctx context.Context, index domain.IndexName, query string, limit int) ([]domain.SearchHit, error)

	// Indices lists the logical indices with their statistics.
	Indices(ctx context.Context) ([]domain.IndexInfo, error)
}
