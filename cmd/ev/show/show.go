package show

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/internal/build"
)

// Cmd represents the `ev show` command.
var Cmd = &cobra.Command{
	Use:           "show FILE",
	Short:         "Print the absolute path of FILE's executable",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := app.SourceArg(args)
		if err != nil {
			return err
		}
		env, err := app.Setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		artifact, err := env.Service.ShowArtifactPath(src)
		if errors.Is(err, build.ErrRecordNotFound) {
			env.Log.Error("no such record")
			return app.ExitCode(1)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), artifact)
		return err
	},
}
