package prep

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/internal/build"
	"github.com/2toxic/evxx/internal/fspath"
)

// Cmd represents the `ev prep` command.
var Cmd = &cobra.Command{
	Use:           "prep FILE",
	Short:         "Write the source template into FILE",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := app.Setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		err = env.Service.WriteTemplate(fspath.New(args[0]))
		if errors.Is(err, build.ErrTemplateExists) {
			return app.ExitCode(1)
		}
		return err
	},
}
