package proc

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"syscall"

	"github.com/2toxic/evxx/internal/timeval"
)

// Report describes how a child process terminated.
type Report struct {
	Exited     bool
	ExitCode   int
	Signaled   bool
	Signal     syscall.Signal
	CoreDumped bool
}

// Code maps the report onto a conventional process exit status.
func (r Report) Code() int {
	if r.Signaled {
		return 128 + int(r.Signal)
	}
	return r.ExitCode
}

// SignalName returns the short name of the termination signal.
func (r Report) SignalName() string { return SignalName(r.Signal) }

func (r Report) String() string {
	if !r.Signaled {
		return fmt.Sprintf("exit %d", r.ExitCode)
	}
	how := "terminated"
	if r.CoreDumped {
		how = "core dump"
	}
	return fmt.Sprintf("SIG: %s (%s)", r.SignalName(), how)
}

var signalNames = map[syscall.Signal]string{
	syscall.SIGHUP:  "HUP",
	syscall.SIGINT:  "INT",
	syscall.SIGQUIT: "QUIT",
	syscall.SIGILL:  "ILL",
	syscall.SIGABRT: "ABRT",
	syscall.SIGFPE:  "FPE",
	syscall.SIGKILL: "KILL",
	syscall.SIGSEGV: "SEGV",
	syscall.SIGPIPE: "PIPE",
	syscall.SIGALRM: "ALRM",
	syscall.SIGTERM: "TERM",
	syscall.SIGUSR1: "USR1",
	syscall.SIGUSR2: "USR2",
}

// SignalName returns the short name of sig, or its number when unrecognized.
func SignalName(sig syscall.Signal) string {
	if n, ok := signalNames[sig]; ok {
		return n
	}
	return strconv.Itoa(int(sig))
}

func reportFrom(ps *os.ProcessState) Report {
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		return Report{Exited: ps.Exited(), ExitCode: ps.ExitCode()}
	}
	if ws.Signaled() {
		return Report{Signaled: true, Signal: ws.Signal(), CoreDumped: ws.CoreDump()}
	}
	return Report{Exited: ws.Exited(), ExitCode: ws.ExitStatus()}
}

// Usage is the resource usage of a terminated child.
type Usage struct {
	User      timeval.Time
	System    timeval.Time
	MaxRSSKiB int64
}

func usageFrom(ps *os.ProcessState) Usage {
	ru, ok := ps.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return Usage{}
	}
	rss := int64(ru.Maxrss)
	if runtime.GOOS == "darwin" {
		// bytes on darwin, KiB elsewhere
		rss /= 1024
	}
	return Usage{
		User:      timeval.FromTimeval(ru.Utime),
		System:    timeval.FromTimeval(ru.Stime),
		MaxRSSKiB: rss,
	}
}
