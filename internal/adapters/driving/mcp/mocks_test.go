package mcp

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits    []domain.SearchHit
	indices []domain.IndexInfo
	err     error

	gotIndex domain.IndexName
	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Search(
	_ context.Context,
	index domain.IndexName,
	query string,
	limit int,
) ([]domain.SearchHit, error) {
	m.gotIndex, m.gotQuery, m.gotLimit = index, query, limit
	return m.hits, m.err
}

func (m *mockSearchService) Indices(_ context.Context) ([]domain.IndexInfo, error) {
	return m.indices, m.err
}

// mockVersionService is a mock implementation of driving.VersionService.
type mockVersionService struct {
	versions  []domain.Version
	sanitized *domain.Sanitized
	err       error
}

func (m *mockVersionService) List(_ context.Context) ([]domain.Version, error) {
	return m.versions, m.err
}

func (m *mockVersionService) Resolve(_ context.Context, ref string) (domain.Version, error) {
	if m.err != nil {
		return domain.Version{}, m.err
	}
	for _, v := range m.versions {
		if v.ReleaseTag == ref || v.Commit == ref {
			return v, nil
		}
	}
	return domain.Version{}, domain.ErrNotFound
}

func (m *mockVersionService) Sanitized(_ context.Context, _ domain.Version) (*domain.Sanitized, error) {
	return m.sanitized, m.err
}
