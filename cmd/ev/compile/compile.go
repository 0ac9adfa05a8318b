// Package compile holds the `ev build` command.
package compile

import (
	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
)

// Cmd represents the `ev build` command.
var Cmd = &cobra.Command{
	Use:           "build FILE",
	Short:         "Track FILE and compile it when it changed",
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
		out, err := env.Service.TrackAndMaybeBuild(cmd.Context(), src, env.Options)
		if err != nil {
			return err
		}
		return app.ExitCode(out.ExitCode)
	},
}
