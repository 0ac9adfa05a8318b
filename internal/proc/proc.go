// Package proc runs the compiler and built artifacts as child processes and
// reports how they terminated.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/2toxic/evxx/internal/timeval"
)

// SpawnError reports that a child process could not be started.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Program, e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// Runner starts child processes. Nil writers default to the process's own
// stdout and stderr.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the child's working directory; empty means the current one.
	Dir string
}

// Completion is the outcome of RunToCompletion.
type Completion struct {
	ExitCode int
	Elapsed  timeval.Time
}

func (r *Runner) stdout() io.Writer {
	if r == nil || r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r == nil || r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runner) dir() string {
	if r == nil {
		return ""
	}
	return r.Dir
}

// RunToCompletion runs argv and waits for it. Elapsed is wall time from just
// before spawn to termination. A child killed by a signal yields 128+signo.
// Cancelling ctx kills the child's process group.
func (r *Runner) RunToCompletion(ctx context.Context, argv []string) (Completion, error) {
	if len(argv) == 0 {
		return Completion{}, &SpawnError{Err: errors.New("empty argument vector")}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = r.dir()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := timeval.Now()
	if err := cmd.Start(); err != nil {
		return Completion{}, &SpawnError{Program: argv[0], Err: err}
	}
	if err := waitOrKill(ctx, cmd, true); err != nil {
		return Completion{}, err
	}
	elapsed := timeval.Now().Sub(start)
	return Completion{ExitCode: reportFrom(cmd.ProcessState).Code(), Elapsed: elapsed}, nil
}

// waitOrKill waits for cmd, killing it when ctx is done first. A non-zero
// exit is not an error: callers read cmd.ProcessState.
func waitOrKill(ctx context.Context, cmd *exec.Cmd, killGroup bool) error {
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		signalProcess(cmd, killGroup, syscall.SIGKILL)
		err = <-done
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("wait %s: %w", cmd.Path, err)
		}
	}
	if cmd.ProcessState == nil {
		return fmt.Errorf("wait %s: no process state", cmd.Path)
	}
	return nil
}

func signalProcess(cmd *exec.Cmd, killGroup bool, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if killGroup && pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}
