package watch

import (
	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
)

// Cmd represents the `ev watch` command.
var Cmd = &cobra.Command{
	Use:           "watch FILE",
	Short:         "Rebuild FILE every time it is saved, until interrupted",
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
		return env.Service.Watch(cmd.Context(), src, env.Options, nil)
	},
}
