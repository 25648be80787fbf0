package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for sdindex resources.
	uriScheme = "sdindex://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "indices",
		Name:        "indices",
		Description: "The self-description indices and their statistics",
		MIMEType:    mimeJSON,
	}, s.handleIndicesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "versions",
		Name:        "versions",
		Description: "Source versions known to the indexer",
		MIMEType:    mimeJSON,
	}, s.handleVersionsResource)

	// Template for one sanitised document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "versions/{ref}",
		Name:        "version-document",
		Description: "Sanitised self-description of a release tag or commit",
		MIMEType:    mimeJSON,
	}, s.handleVersionResource)
}

// handleIndicesResource returns the index list.
func (s *Server) handleIndicesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleIndices(ctx, nil, IndicesInput{})
	if err != nil {
		return nil, fmt.Errorf("listing indices: %w", err)
	}
	return jsonResource(req.Params.URI, output.Indices)
}

// handleVersionsResource returns the version list. Without a source the
// list is empty.
func (s *Server) handleVersionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Versions == nil {
		return jsonResource(req.Params.URI, []any{})
	}

	versions, err := s.ports.Versions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return jsonResource(req.Params.URI, versions)
}

// handleVersionResource returns the sanitised document of one version.
func (s *Server) handleVersionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Versions == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract ref from URI: sdindex://versions/{ref}
	ref := extractVersionRef(req.Params.URI)
	if ref == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, output, err := s.handleInspect(ctx, nil, InspectInput{Version: ref})
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", ref, err)
	}
	return jsonResource(req.Params.URI, output)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractVersionRef extracts the version ref from a URI like sdindex://versions/{ref}.
func extractVersionRef(uri string) string {
	const prefix = uriScheme + "versions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	ref := strings.TrimPrefix(uri, prefix)
	if strings.Contains(ref, "/") {
		return ""
	}
	return ref
}
