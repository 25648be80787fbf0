package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
	"github.com/custodia-labs/sdindex/internal/logger"
	"github.com/custodia-labs/sdindex/internal/selfdescribe"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// IndexerOptions configures a rebuild.
type IndexerOptions struct {
	// Prefix is prepended to logical index names.
	Prefix string

	// Settings are applied to every recreated index.
	Settings domain.IndexSettings

	// Scheme selects the version field written to documents.
	Scheme domain.TaggingScheme
}

// DefaultIndexerOptions returns the options used when none are configured.
func DefaultIndexerOptions() IndexerOptions {
	return IndexerOptions{
		Prefix:   domain.DefaultIndexPrefix,
		Settings: domain.DefaultIndexSettings(),
		Scheme:   domain.TaggingCommit,
	}
}

// Indexer rebuilds every index from every known version.
// Each run drops and recreates the indices; there is no incremental update.
type Indexer struct {
	loader   documentLoader
	writer   driven.IndexWriter
	registry *selfdescribe.Registry
	opts     IndexerOptions

	mu     sync.RWMutex
	status driving.RebuildStatus
}

// NewIndexer creates a new indexer. The cache is optional.
func NewIndexer(
	source driven.SourceStore,
	cache driven.RawCache,
	writer driven.IndexWriter,
	registry *selfdescribe.Registry,
	opts IndexerOptions,
) *Indexer {
	if registry == nil {
		registry = selfdescribe.DefaultRegistry()
	}
	if opts.Settings.TotalFieldsLimit < domain.DefaultTotalFieldsLimit {
		opts.Settings = domain.DefaultIndexSettings()
	}
	if opts.Scheme == "" {
		opts.Scheme = domain.TaggingCommit
	}
	return &Indexer{
		loader:   documentLoader{source: source, cache: cache},
		writer:   writer,
		registry: registry,
		opts:     opts,
	}
}

// loadedVersion is a sanitised document ready for the generators.
type loadedVersion struct {
	tag       domain.VersionTag
	sanitized *domain.Sanitized
}

// Rebuild recreates every index from all versions known to the source.
func (x *Indexer) Rebuild(ctx context.Context) (*domain.RebuildReport, error) {
	if x.loader.source == nil {
		return nil, errors.New("source store not configured")
	}
	versions, err := x.loader.source.Versions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return x.RebuildVersions(ctx, versions)
}

// RebuildVersions recreates every index from the given versions.
// A version that cannot be loaded contributes no documents. An index that
// cannot be recreated or loaded is reported and the others still proceed.
func (x *Indexer) RebuildVersions(ctx context.Context, versions []domain.Version) (*domain.RebuildReport, error) {
	if x.writer == nil {
		return nil, errors.New("index writer not configured")
	}
	if !x.begin() {
		return nil, domain.ErrRebuildInProgress
	}
	defer x.end()

	report := &domain.RebuildReport{Started: time.Now()}

	logger.Section("Loading versions")
	loaded := make([]loadedVersion, 0, len(versions))
	for _, v := range versions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sanitized, result := x.loadVersion(ctx, v)
		report.Versions = append(report.Versions, result)
		loaded = append(loaded, loadedVersion{
			tag:       domain.NewVersionTag(v, x.opts.Scheme),
			sanitized: sanitized,
		})
	}

	var errs []error
	for _, name := range x.registry.Names() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger.Section("Index " + string(name))
		result := x.rebuildIndex(ctx, name, loaded)
		report.Indices = append(report.Indices, result)
		if result.Err != nil {
			logger.Error("rebuilding %s: %v", result.Physical, result.Err)
			errs = append(errs, fmt.Errorf("index %s: %w", result.Physical, result.Err))
			continue
		}
		logger.Info("%s: %d documents", result.Physical, result.Documents)
	}

	report.Duration = time.Since(report.Started)
	return report, errors.Join(errs...)
}

// loadVersion fetches and sanitises one version. Failures are logged and
// yield a nil document so the generators emit nothing for the version.
func (x *Indexer) loadVersion(ctx context.Context, v domain.Version) (*domain.Sanitized, domain.VersionResult) {
	result := domain.VersionResult{Version: v}

	raw, status, err := x.loader.load(ctx, v)
	result.Status = status
	if err != nil {
		logger.Warn("skipping %s: %v", v, err)
		result.Err = err
		return nil, result
	}
	if raw == nil {
		logger.Warn("no self-description for %s", v)
		return nil, result
	}

	sanitized, err := selfdescribe.Sanitize(raw)
	if err != nil {
		logger.Warn("skipping %s: sanitize: %v", v, err)
		result.Status = domain.VersionFailed
		result.Err = fmt.Errorf("sanitize: %w", err)
		return nil, result
	}

	logger.Debug("%s: %d observers, %d monitors (%s)",
		v, len(sanitized.Observers), len(sanitized.Monitors), status)
	return sanitized, result
}

// rebuildIndex drops, recreates and reloads one index.
func (x *Indexer) rebuildIndex(ctx context.Context, name domain.IndexName, loaded []loadedVersion) domain.IndexResult {
	physical := name.PhysicalName(x.opts.Prefix)
	result := domain.IndexResult{Index: name, Physical: physical}

	gen, err := x.registry.Get(name)
	if err != nil {
		result.Err = err
		return result
	}

	if err := x.recreate(ctx, physical); err != nil {
		result.Err = err
		return result
	}

	x.setIndex(name)
	for _, lv := range loaded {
		for _, doc := range gen(lv.sanitized, lv.tag) {
			if err := ctx.Err(); err != nil {
				result.Err = err
				return result
			}
			if _, err := x.writer.PutDocument(ctx, physical, doc); err != nil {
				result.Err = fmt.Errorf("put document for %s: %w", lv.tag.Version, err)
				return result
			}
			result.Documents++
			x.incWritten()
		}
	}
	return result
}

// recreate deletes the index if present and creates it with the configured
// settings.
func (x *Indexer) recreate(ctx context.Context, physical string) error {
	exists, err := x.writer.IndexExists(ctx, physical)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		logger.Debug("deleting index %s", physical)
		if err := x.writer.DeleteIndex(ctx, physical); err != nil {
			return fmt.Errorf("delete index: %w", err)
		}
	}
	logger.Debug("creating index %s (total fields limit %d)", physical, x.opts.Settings.TotalFieldsLimit)
	if err := x.writer.CreateIndex(ctx, physical, x.opts.Settings); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Status returns the progress of the running rebuild.
func (x *Indexer) Status() driving.RebuildStatus {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.status
}

func (x *Indexer) begin() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.status.Running {
		return false
	}
	x.status = driving.RebuildStatus{Running: true}
	return true
}

func (x *Indexer) end() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.status.Running = false
	x.status.Index = ""
}

func (x *Indexer) setIndex(name domain.IndexName) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.status.Index = name
}

func (x *Indexer) incWritten() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.status.DocumentsWritten++
}
