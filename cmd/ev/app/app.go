// Package app wires the pieces shared by every ev subcommand: option
// resolution, the logger and the build service.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/2toxic/evxx/internal/build"
	"github.com/2toxic/evxx/internal/config"
	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/logx"
	"github.com/2toxic/evxx/internal/proc"
	"github.com/2toxic/evxx/internal/repo"
)

// LogFileEnv names the environment variable holding an optional JSON log file.
const LogFileEnv = "EV_LOG_FILE"

// Env is what a subcommand runs with.
type Env struct {
	Service *build.Service
	Options build.Options
	Log     *slog.Logger

	closeLog func() error
}

// Setup resolves options for cmd and builds the logger and service.
// Callers must Close the returned Env.
func Setup(cmd *cobra.Command) (*Env, error) {
	opts, err := ResolveOptions(cmd)
	if err != nil {
		return nil, err
	}
	log, closeLog := logx.Setup(cmd.ErrOrStderr(), logx.LevelFor(opts.Quiet), os.Getenv(LogFileEnv))
	return &Env{
		Service: &build.Service{
			Log:    log,
			Runner: &proc.Runner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
		},
		Options:  opts,
		Log:      log,
		closeLog: closeLog,
	}, nil
}

// Close releases the log file, if any.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// ResolveOptions layers the built-in defaults, the enclosing repository's
// defaults file and the flags given on the command line, in that order.
func ResolveOptions(cmd *cobra.Command) (build.Options, error) {
	opts := build.DefaultOptions()
	wd, err := fspath.Cwd()
	if err != nil {
		return opts, err
	}
	if dir, err := repo.Discover(wd); err == nil {
		d, err := config.LoadDefaults(dir.String())
		if err != nil {
			return opts, err
		}
		opts = opts.WithDefaults(d)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return opts, err
	}
	if err := applyFlags(cmd.Flags(), &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// SourceArg canonicalizes the single FILE argument. The file must exist.
func SourceArg(args []string) (fspath.Path, error) {
	if len(args) != 1 {
		return fspath.Path{}, fmt.Errorf("expected one FILE argument, got %d", len(args))
	}
	p, err := fspath.New(args[0]).Abs()
	if err != nil {
		return fspath.Path{}, fmt.Errorf("source %s: %w", args[0], err)
	}
	return p, nil
}
