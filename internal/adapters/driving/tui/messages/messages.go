// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Index domain.IndexName
	Query string
	Hits  []domain.SearchHit
	Err   error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and result list.
	ViewSearch ViewType = iota
	// ViewDocument shows one document in full.
	ViewDocument
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDocument:
		return "document"
	default:
		return "unknown"
	}
}
