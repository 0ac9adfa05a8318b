package app

import (
	"github.com/spf13/pflag"

	"github.com/2toxic/evxx/internal/build"
)

type toggle struct {
	name, short, usage string
	field              func(*build.Options) *bool
}

var toggles = []toggle{
	{"quiet", "q", "only print errors", func(o *build.Options) *bool { return &o.Quiet }},
	{"sys", "y", "show system time", func(o *build.Options) *bool { return &o.ShowSystem }},
	{"usr", "u", "show user time", func(o *build.Options) *bool { return &o.ShowUser }},
	{"rss", "m", "show peak rss", func(o *build.Options) *bool { return &o.ShowMemory }},
	{"symbols", "g", "generate " + build.FlagSymbols + " symbols", func(o *build.Options) *bool { return &o.Symbols }},
	{"optimize", "o", "optimize with " + build.FlagOptimize, func(o *build.Options) *bool { return &o.Optimize }},
	{"macro", "D", "define the " + build.FlagLocalMacro + " macro", func(o *build.Options) *bool { return &o.LocalMacro }},
}

// AddPersistentFlags registers the option toggles. Each accepts "=false"
// to invert it.
func AddPersistentFlags(fs *pflag.FlagSet) {
	defaults := build.DefaultOptions()
	for _, t := range toggles {
		fs.BoolP(t.name, t.short, *t.field(&defaults), t.usage)
	}
}

// applyFlags copies every toggle set on the command line into opts.
func applyFlags(fs *pflag.FlagSet, opts *build.Options) error {
	for _, t := range toggles {
		if !fs.Changed(t.name) {
			continue
		}
		v, err := fs.GetBool(t.name)
		if err != nil {
			return err
		}
		*t.field(opts) = v
	}
	return nil
}
