package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "List the indices and their statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndices,
}

func init() {
	rootCmd.AddCommand(indicesCmd)
}

func runIndices(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	infos, err := searchService.Indices(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing indices: %w", err)
	}

	if len(infos) == 0 {
		cmd.Println("No indices. Run 'sdindex index' to build them.")
		return nil
	}

	cmd.Printf("%-30s %10s %8s %10s  %s\n", "INDEX", "DOCUMENTS", "FIELDS", "LIMIT", "CREATED")
	for _, info := range infos {
		created := "-"
		if !info.CreatedAt.IsZero() {
			created = info.CreatedAt.Local().Format(time.DateTime)
		}
		cmd.Printf("%-30s %10d %8d %10d  %s\n",
			info.Name, info.DocumentCount, info.FieldCount, info.Settings.TotalFieldsLimit, created)
	}
	return nil
}
