package driven

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// SourceStore provides raw self-description documents by version.
// Implemented by the GitHub connector and the local directory adapter.
type SourceStore interface {
	// Versions enumerates the versions known to the store.
	Versions(ctx context.Context) ([]domain.Version, error)

	// Fetch returns the raw document for a version.
	// Returns domain.ErrNotFound when the version has no document.
	Fetch(ctx context.Context, version domain.Version) (domain.SelfDescribe, error)
}

// RawCache keeps fetched documents locally so a rebuild can skip downloads.
type RawCache interface {
	// Get returns the cached document.
	// Returns domain.ErrNotFound on a cache miss.
	Get(ctx context.Context, version domain.Version) (domain.SelfDescribe, error)

	// Put stores a document for a version.
	Put(ctx context.Context, version domain.Version, doc domain.SelfDescribe) error
}
