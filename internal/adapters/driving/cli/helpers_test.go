package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
)

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	report *domain.RebuildReport
	err    error

	rebuilds   int
	gotVersion []domain.Version
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.RebuildReport, error) {
	m.rebuilds++
	return m.report, m.err
}

func (m *mockIndexService) RebuildVersions(_ context.Context, versions []domain.Version) (*domain.RebuildReport, error) {
	m.rebuilds++
	m.gotVersion = versions
	return m.report, m.err
}

func (m *mockIndexService) Status() driving.RebuildStatus {
	return driving.RebuildStatus{}
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	hits    []domain.SearchHit
	indices []domain.IndexInfo
	err     error

	gotIndex domain.IndexName
	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Search(
	_ context.Context, index domain.IndexName, query string, limit int,
) ([]domain.SearchHit, error) {
	m.gotIndex, m.gotQuery, m.gotLimit = index, query, limit
	return m.hits, m.err
}

func (m *mockSearchService) Indices(_ context.Context) ([]domain.IndexInfo, error) {
	return m.indices, m.err
}

// mockVersionService implements driving.VersionService for testing.
type mockVersionService struct {
	versions  []domain.Version
	sanitized *domain.Sanitized
	err       error
}

func (m *mockVersionService) List(_ context.Context) ([]domain.Version, error) {
	return m.versions, m.err
}

func (m *mockVersionService) Resolve(_ context.Context, ref string) (domain.Version, error) {
	for _, v := range m.versions {
		if v.ReleaseTag == ref || strings.HasPrefix(v.Commit, ref) {
			return v, nil
		}
	}
	return domain.Version{}, domain.ErrNotFound
}

func (m *mockVersionService) Sanitized(_ context.Context, _ domain.Version) (*domain.Sanitized, error) {
	return m.sanitized, m.err
}

// withServices installs services for one test and restores the previous
// set afterwards.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	previous := Services{
		Index:      indexService,
		Search:     searchService,
		Versions:   versionService,
		Settings:   settingsService,
		ConfigPath: configPath,
		WatchDir:   watchDir,
		Close:      closeServices,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(&previous) })
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak
// values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.LocalFlags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
