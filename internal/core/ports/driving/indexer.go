package driving

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// IndexService rebuilds the six self-description indices.
type IndexService interface {
	// Rebuild recreates every index from all versions known to the source.
	Rebuild(ctx context.Context) (*domain.RebuildReport, error)

	// RebuildVersions recreates every index from the given versions only.
	RebuildVersions(ctx context.Context, versions []domain.Version) (*domain.RebuildReport, error)

	// Status returns the progress of the running rebuild.
	Status() RebuildStatus
}

// RebuildStatus represents the current state of a rebuild.
type RebuildStatus struct {
	// Running indicates if a rebuild is in progress.
	Running bool

	// Index is the logical index currently being loaded.
	Index domain.IndexName

	// DocumentsWritten is the count of documents written so far.
	DocumentsWritten int
}
