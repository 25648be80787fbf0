package localfs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/logger"
)

// DocumentPattern matches every document in a version tree.
const DocumentPattern = "**/" + DocumentFile

// Ensure DirSource implements the interface.
var _ driven.SourceStore = (*DirSource)(nil)

// DirSource serves versions from a local directory tree, such as a cache
// directory filled by an earlier GitHub run.
type DirSource struct {
	cache *Cache
}

// NewDirSource creates a source over dir.
func NewDirSource(dir string) (*DirSource, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: source directory is required", domain.ErrInvalidInput)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}
	return &DirSource{cache: &Cache{dir: dir}}, nil
}

// Dir returns the source root.
func (s *DirSource) Dir() string {
	return s.cache.dir
}

// Versions lists every <releaseTag>/<commit>/selfdescribe.json in the tree,
// ordered by publication time and then by path. Documents at any other
// depth are ignored.
func (s *DirSource) Versions(ctx context.Context) ([]domain.Version, error) {
	matches, err := doublestar.Glob(os.DirFS(s.cache.dir), DocumentPattern)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.cache.dir, err)
	}
	sort.Strings(matches)

	versions := make([]domain.Version, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parts := strings.Split(path.Dir(m), "/")
		if len(parts) != 2 {
			logger.Debug("ignoring %s: not in <releaseTag>/<commit>/ layout", m)
			continue
		}

		v := domain.Version{ReleaseTag: parts[0], Commit: parts[1]}
		meta, ok, err := readMeta(filepath.Join(s.cache.dir, parts[0], parts[1]))
		if err != nil {
			logger.Warn("%v", err)
		}
		if ok {
			v.PublishedAt = meta.PublishedAt
		}
		versions = append(versions, v)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].PublishedAt.Before(versions[j].PublishedAt)
	})
	return versions, nil
}

// Fetch returns the document of a version.
func (s *DirSource) Fetch(ctx context.Context, v domain.Version) (domain.SelfDescribe, error) {
	return s.cache.Get(ctx, v)
}
