package main

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/sdindex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/localfs"
	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/cli"
	"github.com/custodia-labs/sdindex/internal/connectors/github"
	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/core/services"
	"github.com/custodia-labs/sdindex/internal/logger"
	"github.com/custodia-labs/sdindex/internal/selfdescribe"
)

// bootstrap wires the configuration, stores and services for one command.
// Settings are always available so a broken configuration can be fixed
// with sdindex config; the other services are left unset when their
// stores cannot be opened.
func bootstrap(opts cli.BootstrapOptions) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	out := &cli.Services{
		Settings:   settingsService,
		ConfigPath: configStore.Path(),
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	applyOverrides(settings, opts)
	if err := settings.Validate(); err != nil {
		logger.Warn("configuration: %v", err)
		return out, nil
	}

	var closers []func() error
	out.Close = func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	var index driven.IndexStore
	if store, err := openIndexStore(settings); err != nil {
		logger.Warn("index store: %v", err)
	} else {
		index = store
		closers = append(closers, index.Close)
		out.Search = services.NewSearchService(index, settings.Index.Prefix)
	}

	source, cache, err := openSource(settings)
	if err != nil {
		logger.Warn("source: %v", err)
		return out, nil
	}
	out.Versions = services.NewVersionService(source, cache)
	if settings.Source.Type == domain.SourceLocal {
		out.WatchDir = settings.Source.Dir
	}

	if index != nil {
		out.Index = services.NewIndexer(source, cache, index, selfdescribe.DefaultRegistry(), services.IndexerOptions{
			Prefix:   settings.Index.Prefix,
			Settings: settings.IndexSettings(),
			Scheme:   settings.Tagging,
		})
	}

	return out, nil
}

// applyOverrides layers command line flags over the stored settings.
// Overrides are never persisted.
func applyOverrides(settings *domain.AppSettings, opts cli.BootstrapOptions) {
	if opts.SourceDir != "" {
		settings.Source = domain.SourceSettings{Type: domain.SourceLocal, Dir: opts.SourceDir}
	}
	if opts.Repo != "" {
		settings.Source.Type = domain.SourceGitHub
		settings.GitHub.Repo = opts.Repo
	}
	if opts.DryRun {
		settings.Index.Backend = domain.BackendMemory
	}
}

func openIndexStore(settings *domain.AppSettings) (driven.IndexStore, error) {
	switch settings.Index.Backend {
	case domain.BackendMemory:
		return memory.NewIndexStore(), nil
	case domain.BackendSQLite:
		store, err := sqlite.NewStore(settings.Index.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, settings.Index.Backend)
	}
}

// openSource returns the source store and, for remote sources, the raw
// document cache in front of it.
func openSource(settings *domain.AppSettings) (driven.SourceStore, driven.RawCache, error) {
	switch settings.Source.Type {
	case domain.SourceLocal:
		source, err := localfs.NewDirSource(settings.Source.Dir)
		if err != nil {
			return nil, nil, err
		}
		return source, nil, nil

	case domain.SourceGitHub:
		cfg, err := github.ParseConfig(settings.GitHub.Repo, settings.GitHub.Branch)
		if err != nil {
			return nil, nil, err
		}
		cache, err := localfs.NewCache(settings.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		client := github.NewClient(github.EnvTokenProvider(settings.GitHub.Token))
		return github.NewStore(cfg, client), cache, nil

	default:
		return nil, nil, fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, settings.Source.Type)
	}
}
