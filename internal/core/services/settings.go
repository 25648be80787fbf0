package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeySourceType       = "source.type"
	KeySourceDir        = "source.dir"
	KeyGitHubRepo       = "github.repo"
	KeyGitHubBranch     = "github.branch"
	KeyGitHubToken      = "github.token"
	KeyCacheDir         = "cache.dir"
	KeyIndexBackend     = "index.backend"
	KeyIndexDataDir     = "index.data_dir"
	KeyIndexPrefix      = "index.prefix"
	KeyIndexFieldsLimit = "index.total_fields_limit"
	KeyTaggingScheme    = "tagging.scheme"
)

// settingKeys is the display order of all keys.
var settingKeys = []string{
	KeySourceType,
	KeySourceDir,
	KeyGitHubRepo,
	KeyGitHubBranch,
	KeyGitHubToken,
	KeyCacheDir,
	KeyIndexBackend,
	KeyIndexDataDir,
	KeyIndexPrefix,
	KeyIndexFieldsLimit,
	KeyTaggingScheme,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Unrecognised enum values
// fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Source: domain.SourceSettings{
			Type: s.getSourceType(defaults.Source.Type),
			Dir:  s.configStore.GetString(KeySourceDir),
		},
		GitHub: domain.GitHubSettings{
			Repo:   s.getString(KeyGitHubRepo, defaults.GitHub.Repo),
			Branch: s.getString(KeyGitHubBranch, defaults.GitHub.Branch),
			Token:  s.configStore.GetString(KeyGitHubToken),
		},
		Cache: domain.CacheSettings{
			Dir: s.configStore.GetString(KeyCacheDir),
		},
		Index: domain.IndexStoreSettings{
			Backend:          s.getBackend(defaults.Index.Backend),
			DataDir:          s.configStore.GetString(KeyIndexDataDir),
			Prefix:           s.getString(KeyIndexPrefix, defaults.Index.Prefix),
			TotalFieldsLimit: s.getInt(KeyIndexFieldsLimit, defaults.Index.TotalFieldsLimit),
		},
		Tagging: s.getTagging(defaults.Tagging),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeySourceType, settings.Source.Type.String()},
		{KeySourceDir, settings.Source.Dir},
		{KeyGitHubRepo, settings.GitHub.Repo},
		{KeyGitHubBranch, settings.GitHub.Branch},
		{KeyCacheDir, settings.Cache.Dir},
		{KeyIndexBackend, settings.Index.Backend.String()},
		{KeyIndexDataDir, settings.Index.DataDir},
		{KeyIndexPrefix, settings.Index.Prefix},
		{KeyIndexFieldsLimit, settings.Index.TotalFieldsLimit},
		{KeyTaggingScheme, string(settings.Tagging)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Tokens are only written when present.
	if settings.GitHub.Token != "" {
		if err := s.configStore.Set(KeyGitHubToken, settings.GitHub.Token); err != nil {
			return fmt.Errorf("save %s: %w", KeyGitHubToken, err)
		}
	}

	return nil
}

// Keys returns every recognised setting key in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// Value returns the effective value of a setting as text.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeySourceType:
		return settings.Source.Type.String(), nil
	case KeySourceDir:
		return settings.Source.Dir, nil
	case KeyGitHubRepo:
		return settings.GitHub.Repo, nil
	case KeyGitHubBranch:
		return settings.GitHub.Branch, nil
	case KeyGitHubToken:
		return settings.GitHub.Token, nil
	case KeyCacheDir:
		return settings.Cache.Dir, nil
	case KeyIndexBackend:
		return settings.Index.Backend.String(), nil
	case KeyIndexDataDir:
		return settings.Index.DataDir, nil
	case KeyIndexPrefix:
		return settings.Index.Prefix, nil
	case KeyIndexFieldsLimit:
		return strconv.Itoa(settings.Index.TotalFieldsLimit), nil
	case KeyTaggingScheme:
		return string(settings.Tagging), nil
	default:
		return "", fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}
}

// Set parses and stores one setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case KeySourceType:
		if !domain.SourceType(value).IsValid() {
			return fmt.Errorf("%w: %s must be github or local", domain.ErrInvalidInput, key)
		}
	case KeyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return fmt.Errorf("%w: %s must be sqlite or memory", domain.ErrInvalidInput, key)
		}
	case KeyTaggingScheme:
		scheme, err := domain.ParseTaggingScheme(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be commit or published", domain.ErrInvalidInput, key)
		}
		stored = string(scheme)
	case KeyGitHubRepo:
		owner, name, ok := strings.Cut(value, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: %s must be owner/name", domain.ErrInvalidInput, key)
		}
	case KeyIndexFieldsLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < domain.DefaultTotalFieldsLimit {
			return fmt.Errorf("%w: %s must be an integer of at least %d",
				domain.ErrInvalidInput, key, domain.DefaultTotalFieldsLimit)
		}
		stored = n
	case KeySourceDir, KeyGitHubBranch, KeyGitHubToken, KeyCacheDir, KeyIndexDataDir, KeyIndexPrefix:
	default:
		return fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks that the current settings can drive a rebuild.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSourceType(defaultVal domain.SourceType) domain.SourceType {
	t := domain.SourceType(s.configStore.GetString(KeySourceType))
	if !t.IsValid() {
		return defaultVal
	}
	return t
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	b := domain.IndexBackend(s.configStore.GetString(KeyIndexBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getTagging(defaultVal domain.TaggingScheme) domain.TaggingScheme {
	val := s.configStore.GetString(KeyTaggingScheme)
	if val == "" {
		return defaultVal
	}
	scheme, err := domain.ParseTaggingScheme(val)
	if err != nil {
		return defaultVal
	}
	return scheme
}
