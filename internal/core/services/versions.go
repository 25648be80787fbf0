package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
	"github.com/custodia-labs/sdindex/internal/selfdescribe"
)

// Ensure VersionService implements the interface.
var _ driving.VersionService = (*VersionService)(nil)

// VersionService lists source versions and serves sanitised documents.
type VersionService struct {
	loader documentLoader
}

// NewVersionService creates a new version service. The cache is optional.
func NewVersionService(source driven.SourceStore, cache driven.RawCache) *VersionService {
	return &VersionService{loader: documentLoader{source: source, cache: cache}}
}

// List returns the versions known to the source.
func (s *VersionService) List(ctx context.Context) ([]domain.Version, error) {
	if s.loader.source == nil {
		return nil, errors.New("source store not configured")
	}
	versions, err := s.loader.source.Versions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// Resolve finds a version by release tag, full commit SHA or a unique
// commit prefix.
func (s *VersionService) Resolve(ctx context.Context, ref string) (domain.Version, error) {
	if ref == "" {
		return domain.Version{}, fmt.Errorf("%w: empty version reference", domain.ErrInvalidInput)
	}
	versions, err := s.List(ctx)
	if err != nil {
		return domain.Version{}, err
	}

	var matches []domain.Version
	for _, v := range versions {
		if v.Commit == ref || (v.ReleaseTag == ref && ref != domain.UntaggedRelease) {
			return v, nil
		}
		if strings.HasPrefix(v.Commit, ref) {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Version{}, fmt.Errorf("version %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Version{}, fmt.Errorf("%w: version %q is ambiguous (%d commits)",
			domain.ErrInvalidInput, ref, len(matches))
	}
}

// Sanitized fetches and sanitises the document of one version.
func (s *VersionService) Sanitized(ctx context.Context, v domain.Version) (*domain.Sanitized, error) {
	raw, _, err := s.loader.load(ctx, v)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("self-description for %s: %w", v, domain.ErrNotFound)
	}
	return selfdescribe.Sanitize(raw)
}
