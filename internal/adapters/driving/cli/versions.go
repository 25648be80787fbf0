package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List source versions",
	Long: `Lists the versions the indices are built from: the branch head
followed by every release commit. Untagged commits show release tag "_".`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, _ []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}

	versions, err := versionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}

	if len(versions) == 0 {
		cmd.Println("No versions found.")
		return nil
	}

	cmd.Printf("%-20s %-42s %s\n", "RELEASE", "COMMIT", "PUBLISHED")
	for _, v := range versions {
		published := "-"
		if !v.PublishedAt.IsZero() {
			published = v.PublishedAt.UTC().Format(time.RFC3339)
		}
		cmd.Printf("%-20s %-42s %s\n", v.ReleaseTag, v.Commit, published)
	}
	return nil
}
