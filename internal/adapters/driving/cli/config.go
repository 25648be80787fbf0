package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretKeys are masked when printed.
var secretKeys = map[string]bool{
	"github.token": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Keys:
  source.type               github or local
  source.dir                local <tag>/<commit>/selfdescribe.json tree
  github.repo               owner/name (default signalfx/signalfx-agent)
  github.branch             branch whose head is indexed (default master)
  github.token              Personal Access Token (or GITHUB_PERSONAL_ACCESS_TOKEN)
  cache.dir                 raw document cache (default ~/.sdindex/downloads)
  index.backend             sqlite or memory
  index.data_dir            SQLite directory (default ~/.sdindex/data)
  index.prefix              physical index name prefix (default selfdescribe-)
  index.total_fields_limit  field ceiling for recreated indices
  tagging.scheme            commit or published`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Change one setting. When the value is omitted it is read from
standard input without echo, which keeps tokens out of shell history.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configPath == "" {
			return errors.New("configuration file not available")
		}
		cmd.Println(configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return err
		}
		cmd.Printf("%-26s %s\n", key, displayValue(key, value))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Println(displayValue(args[0], value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("%s: ", key)
		value = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, displayValue(key, value))
	return nil
}

func displayValue(key, value string) string {
	if value == "" {
		return "(not set)"
	}
	if secretKeys[key] {
		return maskSecret(value)
	}
	return value
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	// Fallback to regular input
	line, _ := bufio.NewReader(in).ReadString('\n') //nolint:errcheck // partial input is used as is
	return strings.TrimSpace(line)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
