package driving

import "github.com/custodia-labs/sdindex/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Keys returns every recognised setting key in display order.
	Keys() []string

	// Value returns the effective value of a setting as text.
	// Returns domain.ErrNotFound for an unrecognised key.
	Value(key string) (string, error)

	// Set parses and stores one setting.
	// Returns domain.ErrNotFound for an unrecognised key and
	// domain.ErrInvalidInput for a value the key does not accept.
	Set(key, value string) error

	// Validate checks that the current settings can drive a rebuild.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
