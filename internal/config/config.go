package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// FileName is the optional defaults file inside the repository marker directory.
const FileName = "defaults.cue"

// Defaults holds per-repository default option toggles. Each Has* flag
// reports whether the file set the field.
type Defaults struct {
	Quiet      bool
	ShowUser   bool
	ShowSystem bool
	ShowMemory bool
	Symbols    bool
	Optimize   bool
	LocalMacro bool

	HasQuiet      bool
	HasShowUser   bool
	HasShowSystem bool
	HasShowMemory bool
	HasSymbols    bool
	HasOptimize   bool
	HasLocalMacro bool
}

// LoadDefaults reads dir/defaults.cue. A missing file yields empty Defaults.
func LoadDefaults(dir string) (Defaults, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(data, path)
}

// ParseDefaults compiles CUE source and extracts the toggles.
func ParseDefaults(src []byte) (Defaults, error) {
	return parse(src, FileName)
}

func parse(src []byte, filename string) (Defaults, error) {
	v := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Defaults{}, fmt.Errorf("invalid config: %v", err)
	}
	return decodeDefaults(v)
}

func decodeDefaults(v cue.Value) (Defaults, error) {
	var d Defaults
	fields := []struct {
		name string
		val  *bool
		has  *bool
	}{
		{"quiet", &d.Quiet, &d.HasQuiet},
		{"showUser", &d.ShowUser, &d.HasShowUser},
		{"showSystem", &d.ShowSystem, &d.HasShowSystem},
		{"showMemory", &d.ShowMemory, &d.HasShowMemory},
		{"symbols", &d.Symbols, &d.HasSymbols},
		{"optimize", &d.Optimize, &d.HasOptimize},
		{"localMacro", &d.LocalMacro, &d.HasLocalMacro},
	}
	for _, f := range fields {
		fv := v.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			continue
		}
		if fv.Kind() != cue.BoolKind {
			return Defaults{}, fmt.Errorf("invalid type for field: %s (expected bool)", f.name)
		}
		if err := fv.Decode(f.val); err != nil {
			return Defaults{}, fmt.Errorf("invalid value for %s: %v", f.name, err)
		}
		*f.has = true
	}
	return d, nil
}
