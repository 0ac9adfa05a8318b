package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/internal/buildinfo"
)

var flagJSON bool

// Cmd represents the `ev version` command.
var Cmd = &cobra.Command{
	Use:           "version",
	Short:         "Print the version",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagJSON {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ev %s\n", buildinfo.Summary())
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(buildinfo.Current())
	},
}

func init() {
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
}
