package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// Output formats for inspect.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <version>",
	Short: "Show the sanitised self-description of a version",
	Long: `Fetches the self-description of one version and prints it after
sanitisation, exactly as the index generators see it.

The version may be a release tag, a commit SHA or a unique SHA prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", formatJSON, "output format (json|yaml)")
	rootCmd.AddCommand(inspectCmd)
}

// inspectOutput is the printed shape.
type inspectOutput struct {
	Version  domain.Version    `json:"version" yaml:"version"`
	Document *domain.Sanitized `json:"document" yaml:"document"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	if inspectFormat != formatJSON && inspectFormat != formatYAML {
		return fmt.Errorf("unknown format %q (want json or yaml)", inspectFormat)
	}

	ctx := cmd.Context()
	v, err := versionService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	doc, err := versionService.Sanitized(ctx, v)
	if err != nil {
		return fmt.Errorf("loading %s: %w", v, err)
	}

	out := inspectOutput{Version: v, Document: doc}

	var data []byte
	switch inspectFormat {
	case formatYAML:
		data, err = yaml.Marshal(out)
	default:
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	cmd.Println(string(data))
	return nil
}
