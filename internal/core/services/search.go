package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
	"github.com/custodia-labs/sdindex/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is used when a caller passes a non-positive limit.
const DefaultSearchLimit = 10

// SearchService queries the indices written by the Indexer.
type SearchService struct {
	reader driven.IndexReader
	prefix string
}

// NewSearchService creates a search service over physical indices named
// prefix + logical name. A nil reader disables search.
func NewSearchService(reader driven.IndexReader, prefix string) *SearchService {
	return &SearchService{reader: reader, prefix: prefix}
}

// Search runs a query against one logical index.
func (s *SearchService) Search(
	ctx context.Context, index domain.IndexName, query string, limit int,
) ([]domain.SearchHit, error) {
	if s.reader == nil {
		return nil, domain.ErrSearchUnavailable
	}
	if _, err := domain.ParseIndexName(string(index)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	physical := index.PhysicalName(s.prefix)
	logger.Debug("search %s query=%q limit=%d", physical, query, limit)

	hits, err := s.reader.Search(ctx, physical, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", physical, err)
	}
	return hits, nil
}

// Indices lists the logical indices that exist in the store. Names in the
// result are logical names.
func (s *SearchService) Indices(ctx context.Context) ([]domain.IndexInfo, error) {
	if s.reader == nil {
		return nil, domain.ErrSearchUnavailable
	}
	infos, err := s.reader.ListIndices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}

	byName := make(map[string]domain.IndexInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	out := make([]domain.IndexInfo, 0, len(domain.AllIndexNames()))
	for _, name := range domain.AllIndexNames() {
		info, ok := byName[name.PhysicalName(s.prefix)]
		if !ok {
			continue
		}
		info.Name = string(name)
		out = append(out, info)
	}
	return out, nil
}
