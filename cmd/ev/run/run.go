package run

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/internal/proc"
)

// Cmd represents the `ev run` command.
var Cmd = &cobra.Command{
	Use:           "run FILE",
	Short:         "Build FILE if needed and run it with stdin forwarded",
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

		stdin, release := stdinFor(cmd)
		defer release()
		env.Service.Stdin = stdin

		code, err := env.Service.RunTracked(cmd.Context(), src, env.Options)
		if err != nil {
			return err
		}
		return app.ExitCode(code)
	},
}

// stdinFor returns the command's input. The process's own stdin is wrapped
// so the relay can be cancelled once the program exits.
func stdinFor(cmd *cobra.Command) (io.Reader, func()) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		return proc.StdinReader(f)
	}
	return in, func() {}
}
