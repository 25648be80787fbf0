package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/localfs"
	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driving"
)

var (
	indexVersions []string
	indexWatch    bool
	indexDryRun   bool
)

// progressInterval is how often the progress line is refreshed.
const progressInterval = 200 * time.Millisecond

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the self-description indices",
	Long: `Fetches the self-description of every version, sanitises it and
recreates all six indices from scratch.

Use --version to rebuild from selected versions only. A version may be
named by release tag, commit SHA or unique SHA prefix.

With --watch and a local source, the indices are rebuilt whenever a
selfdescribe.json file under the source directory changes.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexVersions, "version", nil, "rebuild from these versions only")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild when local documents change")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "build indices in memory without touching the store")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errNotConfigured("index")
	}

	ctx := cmd.Context()

	if !indexWatch {
		return rebuildOnce(ctx, cmd)
	}

	if watchDir == "" {
		return errors.New("--watch requires a local source (set source.type = local or pass --source-dir)")
	}

	if err := rebuildOnce(ctx, cmd); err != nil {
		cmd.PrintErrf("Rebuild failed: %v\n", err)
	}
	return localfs.Watch(ctx, watchDir, localfs.DefaultDebounce, func(ctx context.Context) error {
		cmd.Println()
		cmd.Println("Change detected, rebuilding...")
		return rebuildOnce(ctx, cmd)
	})
}

// rebuildOnce runs one rebuild and prints its report.
func rebuildOnce(ctx context.Context, cmd *cobra.Command) error {
	run := indexService.Rebuild
	if len(indexVersions) > 0 {
		versions, err := resolveVersions(ctx, indexVersions)
		if err != nil {
			return err
		}
		run = func(ctx context.Context) (*domain.RebuildReport, error) {
			return indexService.RebuildVersions(ctx, versions)
		}
	}

	if indexDryRun {
		cmd.Println("Dry run: indices are built in memory and discarded.")
	}

	report, err := rebuildWithProgress(ctx, cmd, indexService, run)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	return nil
}

func resolveVersions(ctx context.Context, refs []string) ([]domain.Version, error) {
	if versionService == nil {
		return nil, errNotConfigured("version")
	}
	versions := make([]domain.Version, 0, len(refs))
	for _, ref := range refs {
		v, err := versionService.Resolve(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", ref, err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// rebuildWithProgress runs a rebuild while displaying progress updates on
// an interactive terminal.
func rebuildWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	svc driving.IndexService,
	run func(context.Context) (*domain.RebuildReport, error),
) (*domain.RebuildReport, error) {
	if !isTerminal(cmd.OutOrStdout()) {
		return run(ctx)
	}

	type result struct {
		report *domain.RebuildReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := run(ctx)
		done <- result{report, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	shown := false
	for {
		select {
		case r := <-done:
			if shown {
				cmd.Print("\r\033[K")
			}
			return r.report, r.err
		case <-ticker.C:
			status := svc.Status()
			if status.Running && status.Index != "" {
				cmd.Printf("\r\033[KIndexing %s... %d documents", status.Index, status.DocumentsWritten)
				shown = true
			}
		}
	}
}

func printReport(cmd *cobra.Command, report *domain.RebuildReport) {
	counts := make(map[domain.VersionStatus]int)
	for _, vr := range report.Versions {
		counts[vr.Status]++
	}
	cmd.Printf("Versions: %d (%d loaded, %d cached, %d absent, %d failed)\n",
		len(report.Versions),
		counts[domain.VersionLoaded], counts[domain.VersionCached],
		counts[domain.VersionAbsent], counts[domain.VersionFailed])
	for _, vr := range report.Versions {
		if vr.Status == domain.VersionFailed {
			cmd.Printf("  %s: %v\n", vr.Version, vr.Err)
		}
	}

	cmd.Println("Indices:")
	for _, ir := range report.Indices {
		if ir.Err != nil {
			cmd.Printf("  %-45s FAILED: %v\n", ir.Physical, ir.Err)
			continue
		}
		cmd.Printf("  %-45s %d\n", ir.Physical, ir.Documents)
	}

	cmd.Printf("Indexed %d documents in %s\n", report.Documents(), report.Duration.Round(time.Millisecond))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
