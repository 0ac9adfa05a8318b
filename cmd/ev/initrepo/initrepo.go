package initrepo

import (
	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/internal/fspath"
)

// Cmd represents the `ev init` command.
var Cmd = &cobra.Command{
	Use:           "init",
	Short:         "Initialize a repository in the current directory",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := app.Setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		wd, err := fspath.Cwd()
		if err != nil {
			return err
		}
		return env.Service.InitializeRepository(wd)
	},
}
