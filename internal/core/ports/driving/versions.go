package driving

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// VersionService exposes the source versions and their documents.
type VersionService interface {
	// List returns the versions known to the source.
	List(ctx context.Context) ([]domain.Version, error)

	// Resolve finds a known version by commit SHA (or unique prefix) or
	// release tag.
	Resolve(ctx context.Context, ref string) (domain.Version, error)

	// Sanitized fetches and sanitises the document of one version.
	// Returns domain.ErrNotFound when the version has no document.
	Sanitized(ctx context.Context, version domain.Version) (*domain.Sanitized, error)
}
