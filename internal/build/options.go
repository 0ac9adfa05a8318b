package build

import (
	"github.com/2toxic/evxx/internal/config"
	"github.com/2toxic/evxx/internal/repo"
)

// Fixed compiler flags selected by Options.
const (
	DefaultToolchain = "g++"
	FlagSymbols      = "-g"
	FlagOptimize     = "-O3"
	FlagLocalMacro   = "-D_LOCAL_SRC"
)

// Options are the per-invocation toggles.
type Options struct {
	Quiet      bool
	ShowUser   bool
	ShowSystem bool
	ShowMemory bool
	Symbols    bool
	Optimize   bool
	LocalMacro bool
}

// DefaultOptions reports user time and peak memory, and builds with debug
// symbols and the local-build macro.
func DefaultOptions() Options {
	return Options{
		ShowUser:   true,
		ShowMemory: true,
		Symbols:    true,
		LocalMacro: true,
	}
}

// WithDefaults overrides o with every toggle set in d.
func (o Options) WithDefaults(d config.Defaults) Options {
	set := func(dst *bool, has, v bool) {
		if has {
			*dst = v
		}
	}
	set(&o.Quiet, d.HasQuiet, d.Quiet)
	set(&o.ShowUser, d.HasShowUser, d.ShowUser)
	set(&o.ShowSystem, d.HasShowSystem, d.ShowSystem)
	set(&o.ShowMemory, d.HasShowMemory, d.ShowMemory)
	set(&o.Symbols, d.HasSymbols, d.Symbols)
	set(&o.Optimize, d.HasOptimize, d.Optimize)
	set(&o.LocalMacro, d.HasLocalMacro, d.LocalMacro)
	return o
}

// CompilerArgs assembles the compiler argument vector:
// toolchain, source, "-o", artifact, configured flags, then the fixed flags.
func CompilerArgs(cfg *repo.Config, rec *repo.Record, opts Options) []string {
	toolchain := DefaultToolchain
	if cfg != nil && cfg.Toolchain != "" {
		toolchain = cfg.Toolchain
	}
	args := []string{toolchain, rec.Source.String(), "-o", rec.Artifact.String()}
	if cfg != nil {
		args = append(args, cfg.Args()...)
	}
	if opts.Symbols {
		args = append(args, FlagSymbols)
	}
	if opts.Optimize {
		args = append(args, FlagOptimize)
	}
	if opts.LocalMacro {
		args = append(args, FlagLocalMacro)
	}
	return args
}
