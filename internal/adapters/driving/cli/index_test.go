package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

func sampleReport() *domain.RebuildReport {
	return &domain.RebuildReport{
		Versions: []domain.VersionResult{
			{Version: domain.Version{Commit: "5555555555", ReleaseTag: "v5.0.0"}, Status: domain.VersionLoaded},
			{Version: domain.Version{Commit: "4444444444", ReleaseTag: "v4.0.0"}, Status: domain.VersionCached},
			{
				Version: domain.Version{Commit: "3333333333", ReleaseTag: "v3.0.0"},
				Status:  domain.VersionFailed,
				Err:     errors.New("boom"),
			},
		},
		Indices: []domain.IndexResult{
			{Index: domain.IndexObservers, Physical: "selfdescribe-observers", Documents: 2},
			{Index: domain.IndexMetrics, Physical: "selfdescribe-metrics", Documents: 7},
		},
		Duration: 1500 * time.Millisecond,
	}
}

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
	assert.Contains(t, indexCmd.Long, "--watch")
}

func TestIndexCmd_ServiceNotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := executeCommand(t, "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestIndexCmd_RebuildsAllVersions(t *testing.T) {
	svc := &mockIndexService{report: sampleReport()}
	withServices(t, &Services{Index: svc})

	out, err := executeCommand(t, "index")

	require.NoError(t, err)
	assert.Equal(t, 1, svc.rebuilds)
	assert.Nil(t, svc.gotVersion)
	assert.Contains(t, out, "Versions: 3 (1 loaded, 1 cached, 0 absent, 1 failed)")
	assert.Contains(t, out, "v3.0.0@3333333333: boom")
	assert.Contains(t, out, "selfdescribe-metrics")
	assert.Contains(t, out, "Indexed 9 documents in 1.5s")
}

func TestIndexCmd_SelectedVersions(t *testing.T) {
	v5 := domain.Version{Commit: "5555555555", ReleaseTag: "v5.0.0"}
	v4 := domain.Version{Commit: "4444444444", ReleaseTag: "v4.0.0"}
	svc := &mockIndexService{report: &domain.RebuildReport{}}
	withServices(t, &Services{
		Index:    svc,
		Versions: &mockVersionService{versions: []domain.Version{v5, v4}},
	})

	_, err := executeCommand(t, "index", "--version", "v4.0.0", "--version", "555")

	require.NoError(t, err)
	assert.Equal(t, []domain.Version{v4, v5}, svc.gotVersion)
}

func TestIndexCmd_UnknownVersion(t *testing.T) {
	svc := &mockIndexService{report: &domain.RebuildReport{}}
	withServices(t, &Services{Index: svc, Versions: &mockVersionService{}})

	_, err := executeCommand(t, "index", "--version", "v9.9.9")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, svc.rebuilds)
}

func TestIndexCmd_FailedIndexExitsWithError(t *testing.T) {
	report := sampleReport()
	report.Indices[1].Err = domain.ErrFieldLimitExceeded
	svc := &mockIndexService{report: report, err: domain.ErrFieldLimitExceeded}
	withServices(t, &Services{Index: svc})

	out, err := executeCommand(t, "index")

	assert.ErrorIs(t, err, domain.ErrFieldLimitExceeded)
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "selfdescribe-observers")
}

func TestIndexCmd_DryRun(t *testing.T) {
	var got BootstrapOptions
	svc := &mockIndexService{report: &domain.RebuildReport{}}
	SetBootstrap(func(opts BootstrapOptions) (*Services, error) {
		got = opts
		return &Services{Index: svc}, nil
	})
	defer SetBootstrap(nil)
	withServices(t, &Services{})

	out, err := executeCommand(t, "index", "--dry-run", "--source-dir", "/srv/downloads")

	require.NoError(t, err)
	assert.True(t, got.DryRun)
	assert.Equal(t, "/srv/downloads", got.SourceDir)
	assert.Contains(t, out, "Dry run")
}

func TestIndexCmd_WatchRequiresLocalSource(t *testing.T) {
	svc := &mockIndexService{report: &domain.RebuildReport{}}
	withServices(t, &Services{Index: svc})

	_, err := executeCommand(t, "index", "--watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "local source")
	assert.Equal(t, 0, svc.rebuilds)
}
