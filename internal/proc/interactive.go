package proc

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/muesli/cancelreader"

	"github.com/2toxic/evxx/internal/fspath"
)

// canceler is implemented by readers whose blocked Read can be interrupted.
type canceler interface {
	Cancel() bool
}

// RunInteractive runs artifact with its standard input fed from stdin through
// a pipe. The relay stops at end of input, closing the pipe so the child sees
// EOF, or when the child terminates. The child's termination is observed,
// and its usage captured, before the relay is torn down.
func (r *Runner) RunInteractive(ctx context.Context, artifact fspath.Path, stdin io.Reader) (Report, Usage, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return Report{}, Usage{}, err
	}

	cmd := exec.Command(artifact.String())
	cmd.Dir = r.dir()
	cmd.Stdin = pr
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return Report{}, Usage{}, &SpawnError{Program: artifact.String(), Err: err}
	}
	// The child holds its own copy of the read end.
	_ = pr.Close()

	relayDone := make(chan error, 1)
	go func() {
		relayDone <- relay(pw, stdin)
	}()

	waitErr := waitOrKill(ctx, cmd, false)
	stopRelay(pw, stdin, relayDone)
	if waitErr != nil {
		return Report{}, Usage{}, waitErr
	}
	return reportFrom(cmd.ProcessState), usageFrom(cmd.ProcessState), nil
}

// relay copies src into dst until src is exhausted, then closes dst.
func relay(dst *os.File, src io.Reader) error {
	if src == nil {
		return dst.Close()
	}
	_, err := io.Copy(dst, src)
	cerr := dst.Close()
	if err == nil || isBenignRelayError(err) {
		return nil
	}
	return errors.Join(err, cerr)
}

func stopRelay(pw *os.File, src io.Reader, done <-chan error) {
	canceled := false
	if c, ok := src.(canceler); ok {
		canceled = c.Cancel()
	}
	// Unblocks a relay stuck writing into a pipe nobody reads any more.
	_ = pw.Close()
	if canceled || src == nil {
		<-done
		return
	}
	// A plain reader blocked in Read cannot be interrupted; the goroutine
	// is left to exit with the process.
	select {
	case <-done:
	default:
	}
}

func isBenignRelayError(err error) bool {
	return errors.Is(err, cancelreader.ErrCanceled) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed)
}

// StdinReader wraps f so that a relay blocked reading it can be cancelled.
// When f does not support cancellation (a regular file, for instance) f is
// returned as is. The returned close function releases the wrapper only.
func StdinReader(f *os.File) (io.Reader, func()) {
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		return f, func() {}
	}
	return cr, func() { _ = cr.Close() }
}
