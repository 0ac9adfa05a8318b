// Package build implements the operations behind the ev commands: tracking
// a source file, deciding whether it is stale, compiling it, running the
// artifact and reporting on it.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/logx"
	"github.com/2toxic/evxx/internal/proc"
	"github.com/2toxic/evxx/internal/repo"
	"github.com/2toxic/evxx/internal/timeval"
)

// Service carries what the operations need from their caller.
type Service struct {
	Log    *slog.Logger
	Runner *proc.Runner
	// Stdin feeds the artifact during RunTracked.
	Stdin io.Reader
	// Start is where repository discovery begins. Empty means the working directory.
	Start fspath.Path
}

// Outcome is the result of one build check.
type Outcome struct {
	State    State
	Created  bool
	ExitCode int
	Elapsed  timeval.Time
}

func (s *Service) log() *slog.Logger {
	if s.Log == nil {
		return logx.Discard()
	}
	return s.Log
}

func (s *Service) open() (*repo.Repository, error) {
	if s.Start.IsEmpty() {
		return repo.OpenWorkingDir()
	}
	return repo.Open(s.Start)
}

// withRepo opens the repository, runs fn and always writes the repository
// back afterwards.
func (s *Service) withRepo(fn func(r *repo.Repository) error) (err error) {
	r, err := s.open()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()
	return fn(r)
}

// InitializeRepository creates a repository in dir.
func (s *Service) InitializeRepository(dir fspath.Path) error {
	abs, err := dir.Abs()
	if err != nil {
		return err
	}
	r, err := repo.Create(abs)
	if err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	s.log().Info("init ok")
	return nil
}

// TrackAndMaybeBuild tracks src if needed and compiles it when stale.
func (s *Service) TrackAndMaybeBuild(ctx context.Context, src fspath.Path, opts Options) (Outcome, error) {
	var out Outcome
	err := s.withRepo(func(r *repo.Repository) error {
		var err error
		out, err = s.build(ctx, r, src, opts)
		return err
	})
	return out, err
}

func (s *Service) build(ctx context.Context, r *repo.Repository, src fspath.Path, opts Options) (Outcome, error) {
	rec, created := r.GetOrCreate(src)
	out := Outcome{State: Fresh, Created: created}
	if created {
		s.log().Info("new file")
	}

	rec.Refresh()
	onDisk := rec.DiskModTime()
	if !NeedsCompile(rec.ModTime, onDisk) {
		out.State, _ = Transition(out.State, Compiled)
		s.log().Info("src untouched")
		return out, nil
	}

	out.State, _ = Transition(out.State, Compiling)
	c, err := s.Runner.RunToCompletion(ctx, CompilerArgs(r.Config(), rec, opts))
	if err != nil {
		return out, err
	}
	out.ExitCode = c.ExitCode
	out.Elapsed = c.Elapsed
	if c.ExitCode != 0 {
		out.State, _ = Transition(out.State, Failed)
		s.log().Error("build failed", "code", c.ExitCode)
		return out, nil
	}
	out.State, _ = Transition(out.State, Compiled)
	rec.ModTime = onDisk
	s.log().Info(fmt.Sprintf("built in %.3fs", c.Elapsed.Seconds()))
	return out, nil
}

// RunTracked builds src if stale and, when the build succeeds, runs the
// artifact with standard input relayed from s.Stdin. The returned code is
// the compiler's on build failure and the artifact's otherwise.
func (s *Service) RunTracked(ctx context.Context, src fspath.Path, opts Options) (int, error) {
	code := 0
	err := s.withRepo(func(r *repo.Repository) error {
		out, err := s.build(ctx, r, src, opts)
		if err != nil || out.ExitCode != 0 {
			code = out.ExitCode
			return err
		}
		rec, _ := r.Lookup(src)
		rep, usage, err := s.Runner.RunInteractive(ctx, rec.Artifact, s.Stdin)
		if err != nil {
			return err
		}
		s.reportSignal(rep)
		s.reportUsage(usage, opts)
		code = rep.Code()
		return nil
	})
	return code, err
}

func (s *Service) reportSignal(rep proc.Report) {
	if rep.Signaled {
		s.log().Error(rep.String())
	}
}

func (s *Service) reportUsage(u proc.Usage, opts Options) {
	if opts.ShowUser {
		s.log().Warn(fmt.Sprintf("usr: %.3f", u.User.Seconds()))
	}
	if opts.ShowSystem {
		s.log().Warn(fmt.Sprintf("sys: %.3f", u.System.Seconds()))
	}
	if opts.ShowMemory {
		s.log().Warn(fmt.Sprintf("rss: %dK (=%dM)", u.MaxRSSKiB, u.MaxRSSKiB/1000))
	}
}

// ShowArtifactPath returns the artifact path recorded for src.
func (s *Service) ShowArtifactPath(src fspath.Path) (fspath.Path, error) {
	var artifact fspath.Path
	err := s.withRepo(func(r *repo.Repository) error {
		rec, ok := r.Lookup(src)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, src)
		}
		artifact = rec.Artifact
		return nil
	})
	return artifact, err
}
