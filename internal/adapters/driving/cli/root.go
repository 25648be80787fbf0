// Package cli provides the sdindex command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
	"github.com/custodia-labs/sdindex/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	sourceDir string
	repo      string
)

// Services injected by SetServices or by the bootstrap hook.
var (
	indexService    driving.IndexService
	searchService   driving.SearchService
	versionService  driving.VersionService
	settingsService driving.SettingsService

	// configPath is the location of the configuration file.
	configPath string

	// watchDir is the local tree watched by index --watch. Empty when the
	// source is not local.
	watchDir string

	closeServices func() error
)

// BootstrapOptions carries the command line overrides applied on top of
// the configuration file.
type BootstrapOptions struct {
	// ConfigDir holds config.toml. Empty uses ~/.sdindex.
	ConfigDir string

	// SourceDir switches to the local source reading this tree.
	SourceDir string

	// Repo overrides github.repo.
	Repo string

	// DryRun writes to an in-memory index store.
	DryRun bool
}

// Services is the set of driving ports a command needs.
type Services struct {
	Index      driving.IndexService
	Search     driving.SearchService
	Versions   driving.VersionService
	Settings   driving.SettingsService
	ConfigPath string
	WatchDir   string

	// Close releases stores opened by the bootstrap. May be nil.
	Close func() error
}

// BootstrapFunc builds the services for one command invocation.
type BootstrapFunc func(opts BootstrapOptions) (*Services, error)

var bootstrap BootstrapFunc

// annotationStandalone marks commands that run without services.
const annotationStandalone = "sdindex/standalone"

var rootCmd = &cobra.Command{
	Use:   "sdindex",
	Short: "Index agent self-description metadata",
	Long: `sdindex reads the selfdescribe.json document of every agent release,
sanitises it and rebuilds six flat search indices: observers, monitors,
metrics, dimensions-observer-defined, dimensions-monitor-defined and
properties.`,
	SilenceUsage:       true,
	PersistentPreRunE:  runBootstrap,
	PersistentPostRunE: runClose,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sdindex)")
	flags.StringVar(&sourceDir, "source-dir", "", "read versions from a local <tag>/<commit>/selfdescribe.json tree")
	flags.StringVar(&repo, "repo", "", "GitHub repository as owner/name")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly.
func SetServices(s *Services) {
	indexService = s.Index
	searchService = s.Search
	versionService = s.Versions
	settingsService = s.Settings
	configPath = s.ConfigPath
	watchDir = s.WatchDir
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if bootstrap == nil || cmd.Annotations[annotationStandalone] != "" {
		return nil
	}

	opts := BootstrapOptions{
		ConfigDir: configDir,
		SourceDir: sourceDir,
		Repo:      repo,
	}
	if f := cmd.Flags().Lookup("dry-run"); f != nil && f.Value.String() == "true" {
		opts.DryRun = true
	}

	services, err := bootstrap(opts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func runClose(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// errNotConfigured reports a service the bootstrap did not provide.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
