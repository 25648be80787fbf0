package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// defaultLimit applies when the caller passes no limit.
const defaultLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Index string `json:"index" jsonschema:"logical index to query, e.g. metrics or monitors"`
	Query string `json:"query" jsonschema:"whitespace separated terms; field:value matches a field exactly"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Index   string           `json:"index"`
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

// IndicesInput is the input schema for the indices tool.
type IndicesInput struct{}

// IndexOutput describes one index.
type IndexOutput struct {
	Name             string    `json:"name"`
	Documents        int       `json:"documents"`
	Fields           int       `json:"fields"`
	TotalFieldsLimit int       `json:"total_fields_limit"`
	CreatedAt        time.Time `json:"created_at,omitzero"`
}

// IndicesOutput is the output schema for the indices tool.
type IndicesOutput struct {
	Indices []IndexOutput `json:"indices"`
}

// VersionsInput is the input schema for the versions tool.
type VersionsInput struct{}

// VersionsOutput is the output schema for the versions tool.
type VersionsOutput struct {
	Versions []domain.Version `json:"versions"`
	Count    int              `json:"count"`
}

// InspectInput is the input schema for the inspect tool.
type InspectInput struct {
	Version string `json:"version" jsonschema:"release tag, commit SHA or unique SHA prefix"`
}

// InspectOutput is the output schema for the inspect tool.
type InspectOutput struct {
	Version  domain.Version    `json:"version"`
	Document *domain.Sanitized `json:"document"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search one self-description index (observers, monitors, metrics, dimensions-observer-defined, dimensions-monitor-defined, properties)",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "indices",
		Description: "List the self-description indices with document and field counts",
	}, s.handleIndices)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "versions",
		Description: "List the source versions the indices are built from",
	}, s.handleVersions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect",
		Description: "Show the sanitised self-description of one version",
	}, s.handleInspect)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	index, err := domain.ParseIndexName(input.Index)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	hits, err := s.ports.Search.Search(ctx, index, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Index:   string(index),
		Results: make([]map[string]any, len(hits)),
		Count:   len(hits),
	}
	for i := range hits {
		output.Results[i] = hits[i].Document.Body
	}

	return nil, output, nil
}

// handleIndices handles the indices tool invocation.
func (s *Server) handleIndices(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IndicesInput,
) (*mcp.CallToolResult, IndicesOutput, error) {
	infos, err := s.ports.Search.Indices(ctx)
	if err != nil {
		return nil, IndicesOutput{}, err
	}

	output := IndicesOutput{Indices: make([]IndexOutput, len(infos))}
	for i, info := range infos {
		output.Indices[i] = IndexOutput{
			Name:             info.Name,
			Documents:        info.DocumentCount,
			Fields:           info.FieldCount,
			TotalFieldsLimit: info.Settings.TotalFieldsLimit,
			CreatedAt:        info.CreatedAt,
		}
	}

	return nil, output, nil
}

// handleVersions handles the versions tool invocation.
func (s *Server) handleVersions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ VersionsInput,
) (*mcp.CallToolResult, VersionsOutput, error) {
	if s.ports.Versions == nil {
		return nil, VersionsOutput{}, ErrMissingVersionService
	}

	versions, err := s.ports.Versions.List(ctx)
	if err != nil {
		return nil, VersionsOutput{}, fmt.Errorf("listing versions: %w", err)
	}

	return nil, VersionsOutput{Versions: versions, Count: len(versions)}, nil
}

// handleInspect handles the inspect tool invocation.
func (s *Server) handleInspect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InspectInput,
) (*mcp.CallToolResult, InspectOutput, error) {
	if s.ports.Versions == nil {
		return nil, InspectOutput{}, ErrMissingVersionService
	}

	version, err := s.ports.Versions.Resolve(ctx, input.Version)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	doc, err := s.ports.Versions.Sanitized(ctx, version)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	return nil, InspectOutput{Version: version, Document: doc}, nil
}
