// Package tui provides an interactive terminal browser for the
// self-description indices. It is a driving adapter over the search port.
package tui

import (
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Search queries the indices.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
