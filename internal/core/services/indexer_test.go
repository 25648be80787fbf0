package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/selfdescribe"
)

const agentV5 = `{
  "TopConfig": {"fields": []},
  "Observers": [{"observerType": "host", "doc": "x", "dimensions": ["host_id"]}],
  "Monitors": [{
    "monitorType": "redis",
    "doc": "Redis monitor",
    "metrics": {"bytes.used": {"type": "gauge", "included": true}},
    "dimensions": [{"name": "d1"}, "d2"],
    "properties": [{"name": "p", "dimension": ["d1"], "description": "prop"}]
  }]
}`

const agentV4 = `{
  "Observers": [],
  "Monitors": [{"monitorType": "cpu", "metrics": [{"name": "cpu.idle"}], "dimensions": []}]
}`

var (
	v5 = domain.Version{Commit: "5555555555", ReleaseTag: "v5.0.0"}
	v4 = domain.Version{Commit: "4444444444", ReleaseTag: "v4.0.0"}
)

// failingWriter wraps a memory store and fails CreateIndex for one name.
type failingWriter struct {
	*memory.IndexStore
	failCreate string
	failPut    string
}

func (w *failingWriter) CreateIndex(ctx context.Context, name string, settings domain.IndexSettings) error {
	if name == w.failCreate {
		return errors.New("permission denied")
	}
	return w.IndexStore.CreateIndex(ctx, name, settings)
}

func (w *failingWriter) PutDocument(ctx context.Context, index string, doc domain.FlatDocument) (string, error) {
	if index == w.failPut {
		return "", errors.New("store unreachable")
	}
	return w.IndexStore.PutDocument(ctx, index, doc)
}

func newTestSource(t *testing.T) *memory.SourceStore {
	t.Helper()
	src := memory.NewSourceStore()
	require.NoError(t, src.AddJSON(v5, agentV5))
	require.NoError(t, src.AddJSON(v4, agentV4))
	return src
}

func physical(name domain.IndexName) string {
	return name.PhysicalName(domain.DefaultIndexPrefix)
}

func TestIndexer_Rebuild(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	indexer := NewIndexer(newTestSource(t), nil, store, nil, DefaultIndexerOptions())

	report, err := indexer.Rebuild(ctx)
	require.NoError(t, err)
	require.NotNil(t, report)

	counts := map[domain.IndexName]int{}
	for _, ir := range report.Indices {
		require.NoError(t, ir.Err)
		counts[ir.Index] = ir.Documents
	}

	assert.Equal(t, map[domain.IndexName]int{
		domain.IndexObservers:                 1,
		domain.IndexMonitors:                  2,
		domain.IndexMetrics:                   2,
		domain.IndexDimensionsObserverDefined: 1,
		domain.IndexDimensionsMonitorDefined:  2,
		domain.IndexProperties:                1,
	}, counts)
	assert.Equal(t, 9, report.Documents())

	props := store.Documents(physical(domain.IndexProperties))
	require.Len(t, props, 1)
	assert.Equal(t, "p", props[0]["property"])
	assert.Equal(t, "d1", props[0]["dimension"])
	assert.Equal(t, "v5.0.0", props[0]["releaseTag"])
	assert.Equal(t, "5555555555", props[0]["sha"])

	metrics := store.Documents(physical(domain.IndexMetrics))
	for _, m := range metrics {
		assert.NotContains(t, m, "included")
	}

	assert.False(t, indexer.Status().Running)
	assert.Equal(t, 9, indexer.Status().DocumentsWritten)
}

func TestIndexer_Rebuild_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	indexer := NewIndexer(newTestSource(t), nil, store, nil, DefaultIndexerOptions())

	snapshot := func() map[string][]string {
		out := map[string][]string{}
		for _, name := range domain.AllIndexNames() {
			hits, err := store.Search(ctx, physical(name), "", 0)
			require.NoError(t, err)
			var bodies []string
			for _, h := range hits {
				_, raw := mustNormalize(t, h.Document.Body)
				bodies = append(bodies, raw)
			}
			sort.Strings(bodies)
			out[string(name)] = bodies
		}
		return out
	}

	_, err := indexer.Rebuild(ctx)
	require.NoError(t, err)
	first := snapshot()

	_, err = indexer.Rebuild(ctx)
	require.NoError(t, err)
	second := snapshot()

	assert.Equal(t, first, second)
}

func TestIndexer_AbsentAndFailingVersions(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)
	absent := domain.Version{Commit: "0000000000", ReleaseTag: domain.UntaggedRelease}
	src.Add(absent, nil)
	src.FailFetch(v4, errors.New("network down"))

	store := memory.NewIndexStore()
	indexer := NewIndexer(src, nil, store, nil, DefaultIndexerOptions())

	report, err := indexer.Rebuild(ctx)
	require.NoError(t, err)

	statuses := map[string]domain.VersionStatus{}
	for _, vr := range report.Versions {
		statuses[vr.Version.Commit] = vr.Status
	}
	assert.Equal(t, domain.VersionLoaded, statuses[v5.Commit])
	assert.Equal(t, domain.VersionFailed, statuses[v4.Commit])
	assert.Equal(t, domain.VersionAbsent, statuses[absent.Commit])

	// Only v5 contributes.
	assert.Len(t, store.Documents(physical(domain.IndexMonitors)), 1)
}

func TestIndexer_MalformedVersionIsSkipped(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)
	bad := domain.Version{Commit: "badbadbad", ReleaseTag: "v0.1.0"}
	require.NoError(t, src.AddJSON(bad, `{"Monitors":[{"monitorType":"x","dimensions":[1]}]}`))

	store := memory.NewIndexStore()
	report, err := NewIndexer(src, nil, store, nil, DefaultIndexerOptions()).Rebuild(ctx)
	require.NoError(t, err)

	last := report.Versions[len(report.Versions)-1]
	assert.Equal(t, domain.VersionFailed, last.Status)
	assert.ErrorIs(t, last.Err, domain.ErrMalformedEntry)
	assert.Len(t, store.Documents(physical(domain.IndexMonitors)), 2)
}

func TestIndexer_IndexFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	writer := &failingWriter{
		IndexStore: memory.NewIndexStore(),
		failCreate: physical(domain.IndexMetrics),
		failPut:    physical(domain.IndexProperties),
	}
	indexer := NewIndexer(newTestSource(t), nil, writer, nil, DefaultIndexerOptions())

	report, err := indexer.Rebuild(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "store unreachable")

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, domain.IndexMetrics, failed[0].Index)
	assert.Equal(t, domain.IndexProperties, failed[1].Index)

	assert.Len(t, writer.Documents(physical(domain.IndexObservers)), 1)
	assert.Len(t, writer.Documents(physical(domain.IndexDimensionsMonitorDefined)), 2)
}

func TestIndexer_UsesCache(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)
	cache := memory.NewRawCache()
	indexer := NewIndexer(src, cache, memory.NewIndexStore(), nil, DefaultIndexerOptions())

	report, err := indexer.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
	for _, vr := range report.Versions {
		assert.Equal(t, domain.VersionLoaded, vr.Status)
	}

	// The source now fails, but the cache still serves both versions.
	src.FailFetch(v5, errors.New("offline"))
	src.FailFetch(v4, errors.New("offline"))

	report, err = indexer.Rebuild(ctx)
	require.NoError(t, err)
	for _, vr := range report.Versions {
		assert.Equal(t, domain.VersionCached, vr.Status)
	}
	assert.Equal(t, 9, report.Documents())
}

func TestIndexer_FieldLimitNeverBelowMinimum(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	opts := DefaultIndexerOptions()
	opts.Settings = domain.IndexSettings{TotalFieldsLimit: 10}

	indexer := NewIndexer(newTestSource(t), nil, store, nil, opts)
	_, err := indexer.Rebuild(ctx)
	require.NoError(t, err)

	infos, err := store.ListIndices(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 6)
	for _, info := range infos {
		assert.Equal(t, domain.DefaultTotalFieldsLimit, info.Settings.TotalFieldsLimit, info.Name)
	}
}

func TestIndexer_RebuildVersions_PublishedScheme(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	opts := DefaultIndexerOptions()
	opts.Scheme = domain.TaggingPublished
	opts.Prefix = "test-"

	indexer := NewIndexer(newTestSource(t), nil, store, selfdescribe.DefaultRegistry(), opts)
	_, err := indexer.RebuildVersions(ctx, []domain.Version{v5})
	require.NoError(t, err)

	docs := store.Documents("test-observers")
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0], "publishedAt")
	assert.NotContains(t, docs[0], "sha")
}

func TestIndexer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	indexer := NewIndexer(newTestSource(t), nil, memory.NewIndexStore(), nil, DefaultIndexerOptions())
	_, err := indexer.RebuildVersions(ctx, []domain.Version{v5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_NotConfigured(t *testing.T) {
	_, err := NewIndexer(nil, nil, memory.NewIndexStore(), nil, IndexerOptions{}).Rebuild(context.Background())
	assert.Error(t, err)

	_, err = NewIndexer(newTestSource(t), nil, nil, nil, IndexerOptions{}).RebuildVersions(context.Background(), nil)
	assert.Error(t, err)
}
