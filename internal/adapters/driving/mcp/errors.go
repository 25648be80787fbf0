// Package mcp provides an MCP (Model Context Protocol) server adapter for sdindex.
// It lets AI assistants query the self-description indices and the
// documents they were built from.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingVersionService is returned by version tools when no source is configured.
var ErrMissingVersionService = errors.New("mcp: version service is not configured")
