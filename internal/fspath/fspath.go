// Package fspath provides an immutable filesystem path value usable as a map key.
package fspath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAbsoluteJoin is returned when an absolute path is joined onto another path.
var ErrAbsoluteJoin = errors.New("cannot append absolute path")

// Path wraps a path string. Paths compare by their string form.
type Path struct {
	p string
}

func New(p string) Path { return Path{p: p} }

func (p Path) String() string { return p.p }

func (p Path) IsEmpty() bool { return p.p == "" }

func (p Path) IsAbs() bool { return filepath.IsAbs(p.p) }

// IsRoot reports whether p names the filesystem root.
func (p Path) IsRoot() bool {
	if p.p == "" {
		return false
	}
	c := filepath.Clean(p.p)
	return filepath.Dir(c) == c
}

// Join appends rel to p. rel must be relative.
func (p Path) Join(rel Path) (Path, error) {
	if rel.IsAbs() {
		return Path{}, fmt.Errorf("%w: %s", ErrAbsoluteJoin, rel.p)
	}
	return Path{p: filepath.Join(p.p, rel.p)}, nil
}

// MustJoin is Join for relative literals known at compile time.
func (p Path) MustJoin(rel string) Path {
	j, err := p.Join(New(rel))
	if err != nil {
		panic(err)
	}
	return j
}

// Exists reports whether anything (file, dir, dangling symlink) is present at p.
func (p Path) Exists() bool {
	_, err := os.Lstat(p.p)
	return err == nil
}

// Abs returns the canonical absolute form of p with symlinks resolved.
// The path must exist.
func (p Path) Abs() (Path, error) {
	abs, err := filepath.Abs(p.p)
	if err != nil {
		return Path{}, err
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Path{}, fmt.Errorf("canonicalize %s: %w", p.p, err)
	}
	return Path{p: canon}, nil
}

// Dir returns the parent directory of p.
func (p Path) Dir() Path { return Path{p: filepath.Dir(p.p)} }

func (p Path) Base() string { return filepath.Base(p.p) }

// Less orders paths lexicographically.
func (p Path) Less(q Path) bool { return p.p < q.p }

// Cwd returns the current working directory.
func Cwd() (Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Path{}, err
	}
	return Path{p: wd}, nil
}
