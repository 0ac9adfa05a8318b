package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/cmd/ev/app"
	"github.com/2toxic/evxx/cmd/ev/compile"
	"github.com/2toxic/evxx/cmd/ev/initrepo"
	"github.com/2toxic/evxx/cmd/ev/prep"
	"github.com/2toxic/evxx/cmd/ev/run"
	"github.com/2toxic/evxx/cmd/ev/show"
	"github.com/2toxic/evxx/cmd/ev/status"
	"github.com/2toxic/evxx/cmd/ev/version"
	"github.com/2toxic/evxx/cmd/ev/watch"
)

// NewRootCmd creates the root command for ev.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ev",
		Short: "Build and run single-file programs, recompiling only what changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.AddPersistentFlags(cmd.PersistentFlags())

	cmd.AddCommand(initrepo.Cmd)
	cmd.AddCommand(compile.Cmd)
	cmd.AddCommand(run.Cmd)
	cmd.AddCommand(show.Cmd)
	cmd.AddCommand(prep.Cmd)
	cmd.AddCommand(status.Cmd)
	cmd.AddCommand(watch.Cmd)
	cmd.AddCommand(version.Cmd)

	return cmd
}

// Execute runs the root command with provided args. SIGINT and SIGTERM
// cancel the command's context, which kills running children.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
