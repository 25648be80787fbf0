package domain

import (
	"fmt"
	"time"
)

// IndexName is the logical name of one of the six document collections.
type IndexName string

// The six logical indices. The set is fixed.
const (
	IndexObservers                 IndexName = "observers"
	IndexMonitors                  IndexName = "monitors"
	IndexMetrics                   IndexName = "metrics"
	IndexDimensionsObserverDefined IndexName = "dimensions-observer-defined"
	IndexDimensionsMonitorDefined  IndexName = "dimensions-monitor-defined"
	IndexProperties                IndexName = "properties"
)

// AllIndexNames returns the logical indices in rebuild order.
func AllIndexNames() []IndexName {
	return []IndexName{
		IndexObservers,
		IndexMonitors,
		IndexMetrics,
		IndexDimensionsObserverDefined,
		IndexDimensionsMonitorDefined,
		IndexProperties,
	}
}

// ParseIndexName validates a logical index name.
func ParseIndexName(s string) (IndexName, error) {
	for _, n := range AllIndexNames() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: index %q", ErrInvalidInput, s)
}

// DefaultIndexPrefix is prepended to logical names to form physical names.
const DefaultIndexPrefix = "selfdescribe-"

// PhysicalName returns the store-level index name for a logical index.
func (n IndexName) PhysicalName(prefix string) string {
	return prefix + string(n)
}

// DefaultTotalFieldsLimit is the minimum field ceiling for new indices.
// Capability documents are wide and sparse.
const DefaultTotalFieldsLimit = 100000

// IndexSettings are applied when an index is created.
type IndexSettings struct {
	// TotalFieldsLimit caps the number of distinct field paths in the index.
	TotalFieldsLimit int
}

// DefaultIndexSettings returns the settings used for every rebuild.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{TotalFieldsLimit: DefaultTotalFieldsLimit}
}

// IndexInfo describes an existing index.
type IndexInfo struct {
	Name          string
	Settings      IndexSettings
	DocumentCount int
	FieldCount    int
	CreatedAt     time.Time
}

// StoredDocument is a document as held by an index.
type StoredDocument struct {
	ID    string
	Index string
	Body  FlatDocument
}

// SearchHit is a single search result.
type SearchHit struct {
	Document StoredDocument
}
