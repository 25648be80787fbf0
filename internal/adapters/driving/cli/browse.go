package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the indices interactively",
	Long: `Opens a terminal browser over the six indices.

Type a query and press enter to search the highlighted index, tab to move
to the next index, ctrl+o to show the selected document and esc to return.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	app, err := tui.NewApp(&tui.Ports{Search: searchService})
	if err != nil {
		return err
	}
	return app.WithContext(cmd.Context()).Run()
}
