package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document bodies", func(t *testing.T) {
		mockSearch := &mockSearchService{
			hits: []domain.SearchHit{{
				Document: domain.StoredDocument{
					ID:    "doc-1",
					Index: "selfdescribe-metrics",
					Body:  domain.FlatDocument{"metric": "cpu.utilization", "monitor": "cpu"},
				},
			}},
		}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchInput{Index: "metrics", Query: "monitor:cpu", Limit: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "metrics", output.Index)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "cpu.utilization", output.Results[0]["metric"])
		assert.Equal(t, domain.IndexMetrics, mockSearch.gotIndex)
		assert.Equal(t, "monitor:cpu", mockSearch.gotQuery)
		assert.Equal(t, 5, mockSearch.gotLimit)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Index: "monitors", Query: "x"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 10, mockSearch.gotLimit)
	})

	t.Run("unknown index is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Index: "documents", Query: "x"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Index: "metrics", Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleIndices(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockSearch := &mockSearchService{
		indices: []domain.IndexInfo{{
			Name:          "metrics",
			Settings:      domain.IndexSettings{TotalFieldsLimit: 100000},
			DocumentCount: 42,
			FieldCount:    7,
			CreatedAt:     created,
		}},
	}
	server, err := NewServer(&Ports{Search: mockSearch})
	require.NoError(t, err)

	_, output, err := server.handleIndices(context.Background(), nil, IndicesInput{})

	require.NoError(t, err)
	require.Len(t, output.Indices, 1)
	assert.Equal(t, IndexOutput{
		Name:             "metrics",
		Documents:        42,
		Fields:           7,
		TotalFieldsLimit: 100000,
		CreatedAt:        created,
	}, output.Indices[0])
}

func TestServer_versionTools(t *testing.T) {
	ctx := context.Background()
	v5 := domain.Version{Commit: "5555555555", ReleaseTag: "v5.0.0"}
	doc := &domain.Sanitized{Monitors: []domain.Monitor{{Type: "cpu"}}}

	t.Run("without version service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleVersions(ctx, nil, VersionsInput{})
		assert.ErrorIs(t, err, ErrMissingVersionService)

		_, _, err = server.handleInspect(ctx, nil, InspectInput{Version: "v5.0.0"})
		assert.ErrorIs(t, err, ErrMissingVersionService)
	})

	t.Run("lists versions", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Versions: &mockVersionService{versions: []domain.Version{v5}},
		})
		require.NoError(t, err)

		_, output, err := server.handleVersions(ctx, nil, VersionsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, v5, output.Versions[0])
	})

	t.Run("inspects a version by tag", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Versions: &mockVersionService{versions: []domain.Version{v5}, sanitized: doc},
		})
		require.NoError(t, err)

		_, output, err := server.handleInspect(ctx, nil, InspectInput{Version: "v5.0.0"})

		require.NoError(t, err)
		assert.Equal(t, v5, output.Version)
		assert.Same(t, doc, output.Document)
	})

	t.Run("unknown version", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Versions: &mockVersionService{versions: []domain.Version{v5}},
		})
		require.NoError(t, err)

		_, _, err = server.handleInspect(ctx, nil, InspectInput{Version: "v9"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
