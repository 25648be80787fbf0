package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

func TestExtractVersionRef(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "release tag",
			uri:      "sdindex://versions/v5.0.0",
			expected: "v5.0.0",
		},
		{
			name:     "commit",
			uri:      "sdindex://versions/5555555555",
			expected: "5555555555",
		},
		{
			name:     "invalid prefix",
			uri:      "file://versions/v5.0.0",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "sdindex://versions/v5.0.0/metrics",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractVersionRef(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestHandleIndicesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns indices as JSON", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{
			indices: []domain.IndexInfo{{Name: "observers", DocumentCount: 3}},
		}})
		require.NoError(t, err)

		result, err := server.handleIndicesResource(ctx, readRequest("sdindex://indices"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []IndexOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "observers", got[0].Name)
		assert.Equal(t, 3, got[0].Documents)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{err: domain.ErrSearchUnavailable}})
		require.NoError(t, err)

		_, err = server.handleIndicesResource(ctx, readRequest("sdindex://indices"))

		assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
	})
}

func TestHandleVersionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("without version service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		result, err := server.handleVersionsResource(ctx, readRequest("sdindex://versions"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns versions", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search: &mockSearchService{},
			Versions: &mockVersionService{versions: []domain.Version{
				{Commit: "abc", ReleaseTag: domain.UntaggedRelease},
			}},
		})
		require.NoError(t, err)

		result, err := server.handleVersionsResource(ctx, readRequest("sdindex://versions"))

		require.NoError(t, err)
		assert.JSONEq(t, `[{"commit":"abc","releaseTag":"_"}]`, result.Contents[0].Text)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Versions: &mockVersionService{err: errors.New("rate limited")},
		})
		require.NoError(t, err)

		_, err = server.handleVersionsResource(ctx, readRequest("sdindex://versions"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})
}

func TestHandleVersionResource(t *testing.T) {
	ctx := context.Background()
	v4 := domain.Version{Commit: "4444444444", ReleaseTag: "v4.0.0"}

	t.Run("returns sanitised document", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search: &mockSearchService{},
			Versions: &mockVersionService{
				versions: []domain.Version{v4},
				sanitized: &domain.Sanitized{
					Observers: []domain.Observer{{Type: "docker", Dimensions: []string{"container_name"}}},
				},
			},
		})
		require.NoError(t, err)

		result, err := server.handleVersionResource(ctx, readRequest("sdindex://versions/v4.0.0"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"observerType": "docker"`)
		assert.Contains(t, result.Contents[0].Text, `"releaseTag": "v4.0.0"`)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Versions: &mockVersionService{}})
		require.NoError(t, err)

		_, err = server.handleVersionResource(ctx, readRequest("sdindex://versions/"))

		assert.Error(t, err)
	})

	t.Run("without version service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.handleVersionResource(ctx, readRequest("sdindex://versions/v4.0.0"))

		assert.Error(t, err)
	})
}
