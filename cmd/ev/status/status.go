package status

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/internal/build"
	"github.com/2toxic/evxx/internal/export"
	"github.com/2toxic/evxx/internal/fspath"
)

var (
	flagUntracked bool
	flagYAML      bool
)

// Cmd represents the `ev status` command.
var Cmd = &cobra.Command{
	Use:           "status",
	Short:         "List tracked files and whether they need a rebuild",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := app.Setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		root, entries, err := env.Service.Status(cmd.Context(), flagUntracked)
		if err != nil {
			return err
		}
		if flagYAML {
			return export.Write(cmd.OutOrStdout(), root.String(), exportEntries(entries))
		}
		return writeTable(cmd.OutOrStdout(), root, entries)
	},
}

func init() {
	Cmd.Flags().BoolVar(&flagUntracked, "untracked", false, "Also list source files the repository does not track")
	Cmd.Flags().BoolVar(&flagYAML, "yaml", false, "Print canonical YAML")
}

func exportEntries(entries []build.Entry) []export.Entry {
	out := make([]export.Entry, 0, len(entries))
	for _, e := range entries {
		x := export.Entry{Source: e.Source.String(), State: string(e.State)}
		if e.State != build.StatusUntracked {
			x.Artifact = e.Artifact.String()
			x.ModTime = e.ModTime.Encode()
		}
		out = append(out, x)
	}
	return out
}

func writeTable(w io.Writer, root fspath.Path, entries []build.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%-9s %s\n", e.State, relTo(root, e.Source)); err != nil {
			return err
		}
	}
	return nil
}

func relTo(root, p fspath.Path) string {
	rel, err := filepath.Rel(root.String(), p.String())
	if err != nil {
		return p.String()
	}
	return rel
}
