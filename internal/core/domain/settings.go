package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// SourceType selects where raw self-descriptions come from.
type SourceType string

// Available source types.
const (
	// SourceGitHub reads the repository through the GitHub API.
	SourceGitHub SourceType = "github"

	// SourceLocal reads a <releaseTag>/<commit>/selfdescribe.json tree.
	SourceLocal SourceType = "local"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	return t == SourceGitHub || t == SourceLocal
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Description returns a human-readable description of the source type.
func (t SourceType) Description() string {
	switch t {
	case SourceGitHub:
		return "GitHub repository"
	case SourceLocal:
		return "Local directory"
	default:
		return unknownDescription
	}
}

// IndexBackend selects the index store implementation.
type IndexBackend string

// Available index backends.
const (
	// BackendSQLite persists indices in a SQLite database.
	BackendSQLite IndexBackend = "sqlite"

	// BackendMemory keeps indices in process memory for dry runs and tests.
	BackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == BackendSQLite || b == BackendMemory
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// SourceSettings configures the source document store.
type SourceSettings struct {
	// Type is github or local.
	Type SourceType

	// Dir is the tree read by the local source.
	Dir string
}

// GitHubSettings configures the GitHub source.
type GitHubSettings struct {
	// Repo is owner/name.
	Repo string

	// Branch is the branch whose head is indexed.
	Branch string

	// Token is a Personal Access Token. Empty falls back to the environment.
	Token string
}

// CacheSettings configures the raw document cache.
type CacheSettings struct {
	// Dir is the cache root. Empty uses ~/.sdindex/downloads.
	Dir string
}

// IndexStoreSettings configures the index store and the indices it holds.
type IndexStoreSettings struct {
	Backend IndexBackend

	// DataDir holds the SQLite database. Empty uses ~/.sdindex/data.
	DataDir string

	// Prefix is prepended to logical index names.
	Prefix string

	// TotalFieldsLimit is applied to every recreated index.
	TotalFieldsLimit int
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Source  SourceSettings
	GitHub  GitHubSettings
	Cache   CacheSettings
	Index   IndexStoreSettings
	Tagging TaggingScheme
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Source: SourceSettings{Type: SourceGitHub},
		GitHub: GitHubSettings{
			Repo:   "signalfx/signalfx-agent",
			Branch: "master",
		},
		Index: IndexStoreSettings{
			Backend:          BackendSQLite,
			Prefix:           DefaultIndexPrefix,
			TotalFieldsLimit: DefaultTotalFieldsLimit,
		},
		Tagging: TaggingCommit,
	}
}

// Validate checks that the settings can drive a rebuild.
func (s AppSettings) Validate() error {
	if !s.Source.Type.IsValid() {
		return fmt.Errorf("%w: source.type %q", ErrInvalidInput, s.Source.Type)
	}
	if s.Source.Type == SourceLocal && s.Source.Dir == "" {
		return fmt.Errorf("%w: source.dir is required for a local source", ErrInvalidInput)
	}
	if s.Source.Type == SourceGitHub && !strings.Contains(s.GitHub.Repo, "/") {
		return fmt.Errorf("%w: github.repo %q must be owner/name", ErrInvalidInput, s.GitHub.Repo)
	}
	if !s.Index.Backend.IsValid() {
		return fmt.Errorf("%w: index.backend %q", ErrInvalidInput, s.Index.Backend)
	}
	if s.Index.TotalFieldsLimit < DefaultTotalFieldsLimit {
		return fmt.Errorf("%w: index.total_fields_limit must be at least %d",
			ErrInvalidInput, DefaultTotalFieldsLimit)
	}
	if _, err := ParseTaggingScheme(string(s.Tagging)); err != nil {
		return err
	}
	return nil
}

// IndexSettings returns the settings applied to recreated indices.
func (s AppSettings) IndexSettings() IndexSettings {
	return IndexSettings{TotalFieldsLimit: s.Index.TotalFieldsLimit}
}
