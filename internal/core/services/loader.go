package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/logger"
)

// documentLoader resolves raw documents through the cache, falling back to
// the source store and filling the cache on a miss.
type documentLoader struct {
	source driven.SourceStore
	cache  driven.RawCache
}

// load returns the raw document of a version. A nil document with
// VersionAbsent means the source has no document for that version.
func (l documentLoader) load(ctx context.Context, v domain.Version) (domain.SelfDescribe, domain.VersionStatus, error) {
	if l.cache != nil {
		doc, err := l.cache.Get(ctx, v)
		switch {
		case err == nil:
			logger.Debug("cache hit for %s", v)
			return doc, domain.VersionCached, nil
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("reading cache for %s: %v", v, err)
		}
	}

	if l.source == nil {
		return nil, domain.VersionFailed, fmt.Errorf("fetch %s: source store not configured", v)
	}

	doc, err := l.source.Fetch(ctx, v)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.VersionAbsent, nil
		}
		return nil, domain.VersionFailed, fmt.Errorf("fetch %s: %w", v, err)
	}
	if doc == nil {
		return nil, domain.VersionAbsent, nil
	}

	if l.cache != nil {
		if err := l.cache.Put(ctx, v, doc); err != nil {
			logger.Warn("caching %s: %v", v, err)
		}
	}
	return doc, domain.VersionLoaded, nil
}
