package mcp

import (
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search queries the rebuilt indices.
	Search driving.SearchService

	// Versions lists source versions and their sanitised documents.
	Versions driving.VersionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Versions is optional: without a source the version tools report it.
	return nil
}
