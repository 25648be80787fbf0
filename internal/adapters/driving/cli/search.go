package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <index> <query>...",
	Short: "Search one index",
	Long: `Searches one of the six indices.

The query is a list of whitespace separated terms. A field:value term
matches documents whose top-level field equals the value. A bare term
matches documents containing it anywhere, case-insensitively.

Examples:
  sdindex search metrics monitor:collectd/cpu
  sdindex search properties dimension:container_id releaseTag:v5.0.0
  sdindex search observers docker`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as a JSON array")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	index, err := domain.ParseIndexName(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")

	hits, err := searchService.Search(cmd.Context(), index, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchLines(cmd, hits)
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	bodies := make([]domain.FlatDocument, len(hits))
	for i := range hits {
		bodies[i] = hits[i].Document.Body
	}
	data, err := json.MarshalIndent(bodies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// outputSearchLines prints one compact JSON document per line.
func outputSearchLines(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range hits {
		data, err := json.Marshal(hits[i].Document.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", hits[i].Document.ID, err)
		}
		cmd.Println(string(data))
	}
	return nil
}
