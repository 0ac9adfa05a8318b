package proc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/2toxic/evxx/internal/fspath"
)

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process tests require POSIX shell")
	}
}

func writeScript(t *testing.T, body string) fspath.Path {
	t.Helper()
	p := filepath.Join(t.TempDir(), "prog")
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return fspath.New(p)
}

func TestRunToCompletion_ExitCodeAndElapsed(t *testing.T) {
	requirePOSIXShell(t)
	var out bytes.Buffer
	r := &Runner{Stdout: &out, Stderr: io.Discard}
	c, err := r.RunToCompletion(context.Background(), []string{"sh", "-c", "printf ok; sleep 0.05; exit 7"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.ExitCode != 7 {
		t.Fatalf("unexpected exit code: %d", c.ExitCode)
	}
	if c.Elapsed.Seconds() < 0.04 {
		t.Fatalf("elapsed too small: %v", c.Elapsed.Seconds())
	}
	if out.String() != "ok" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}

func TestRunToCompletion_SignalMapsTo128Plus(t *testing.T) {
	requirePOSIXShell(t)
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	c, err := r.RunToCompletion(context.Background(), []string{"sh", "-c", "kill -s TERM $$"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.ExitCode != 128+int(syscall.SIGTERM) {
		t.Fatalf("unexpected exit code: %d", c.ExitCode)
	}
}

func TestRunToCompletion_SpawnFailure(t *testing.T) {
	r := &Runner{}
	_, err := r.RunToCompletion(context.Background(), []string{"this-program-does-not-exist-xyz"})
	var se *SpawnError
	if !errors.As(err, &se) || se.Program != "this-program-does-not-exist-xyz" {
		t.Fatalf("expected SpawnError, got %v", err)
	}
	if _, err := r.RunToCompletion(context.Background(), nil); !errors.As(err, &se) {
		t.Fatalf("expected SpawnError for empty argv, got %v", err)
	}
}

func TestRunToCompletion_ContextKillsChild(t *testing.T) {
	requirePOSIXShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	start := time.Now()
	c, err := r.RunToCompletion(ctx, []string{"sh", "-c", "sleep 5"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("child was not killed")
	}
	if c.ExitCode != 128+int(syscall.SIGKILL) {
		t.Fatalf("unexpected exit code: %d", c.ExitCode)
	}
}

func TestRunInteractive_RelaysStdinUntilEOF(t *testing.T) {
	requirePOSIXShell(t)
	prog := writeScript(t, "cat")
	var out bytes.Buffer
	r := &Runner{Stdout: &out, Stderr: io.Discard}
	rep, _, err := r.RunInteractive(context.Background(), prog, strings.NewReader("hello\nworld\n"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rep.Exited || rep.ExitCode != 0 || rep.Signaled {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if out.String() != "hello\nworld\n" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}

func TestRunInteractive_ReportsSignal(t *testing.T) {
	requirePOSIXShell(t)
	prog := writeScript(t, "kill -s SEGV $$")
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	rep, _, err := r.RunInteractive(context.Background(), prog, strings.NewReader(""))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rep.Signaled || rep.Signal != syscall.SIGSEGV || rep.SignalName() != "SEGV" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Code() != 128+int(syscall.SIGSEGV) {
		t.Fatalf("unexpected code: %d", rep.Code())
	}
	if !strings.HasPrefix(rep.String(), "SIG: SEGV (") {
		t.Fatalf("unexpected string: %q", rep.String())
	}
}

// blockingReader never yields data; Cancel releases it.
type blockingReader struct {
	once     sync.Once
	released chan struct{}
	canceled bool
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.released
	return 0, errors.New("read canceled")
}

func (b *blockingReader) Cancel() bool {
	b.once.Do(func() {
		b.canceled = true
		close(b.released)
	})
	return true
}

func TestRunInteractive_CancelsRelayAfterChildExits(t *testing.T) {
	requirePOSIXShell(t)
	prog := writeScript(t, "exit 3")
	in := &blockingReader{released: make(chan struct{})}
	r := &Runner{Stdout: io.Discard, Stderr: io.Discard}
	rep, usage, err := r.RunInteractive(context.Background(), prog, in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Code() != 3 {
		t.Fatalf("unexpected code: %d", rep.Code())
	}
	if !in.canceled {
		t.Fatalf("relay was not cancelled")
	}
	if usage.User.Sec < 0 || usage.MaxRSSKiB < 0 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestRunInteractive_SpawnFailure(t *testing.T) {
	r := &Runner{}
	_, _, err := r.RunInteractive(context.Background(), fspath.New(filepath.Join(t.TempDir(), "nope")), nil)
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
}

func TestSignalName(t *testing.T) {
	cases := map[syscall.Signal]string{
		syscall.SIGHUP:  "HUP",
		syscall.SIGFPE:  "FPE",
		syscall.SIGUSR2: "USR2",
		syscall.SIGCHLD: strconv.Itoa(int(syscall.SIGCHLD)),
	}
	for sig, want := range cases {
		if got := SignalName(sig); got != want {
			t.Fatalf("SignalName(%d) = %q, want %q", int(sig), got, want)
		}
	}
}
