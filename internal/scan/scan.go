// Package scan finds candidate source files under a repository root.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/2toxic/evxx/internal/fspath"
)

// Extensions lists the file suffixes treated as single-file programs.
var Extensions = []string{".c", ".cc", ".cpp", ".cxx"}

// Options controls Sources.
type Options struct {
	// NoGitignore disables .gitignore filtering.
	NoGitignore bool
	// Skip holds directory names that are never entered.
	Skip []string
}

// IsSource reports whether name carries one of the source extensions.
func IsSource(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Sources walks root and returns the absolute paths of source files, sorted.
// Symlinked directories are not followed.
func Sources(root fspath.Path, opts Options) ([]fspath.Path, error) {
	absRoot := root.String()
	skip := map[string]struct{}{".git": {}}
	for _, s := range opts.Skip {
		skip[s] = struct{}{}
	}
	var m *matcher
	if !opts.NoGitignore {
		m = &matcher{root: absRoot}
	}

	var found []fspath.Path
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, ent := range entries {
			name := ent.Name()
			child := filepath.Join(dir, name)
			rel, err := filepath.Rel(absRoot, child)
			if err != nil {
				return err
			}
			if ent.IsDir() {
				if _, ok := skip[name]; ok {
					continue
				}
				if m.ignored(rel, true) {
					continue
				}
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if !ent.Type().IsRegular() || !IsSource(name) {
				continue
			}
			if m.ignored(rel, false) {
				continue
			}
			found = append(found, fspath.New(child))
		}
		return nil
	}
	if err := walk(absRoot); err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Less(found[j]) })
	return found, nil
}

// matcher evaluates .gitignore files from the root down to the directory of
// each candidate. A nil matcher ignores nothing.
type matcher struct {
	root  string
	cache map[string][]gitignore.Pattern
}

func (m *matcher) ignored(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	var patterns []gitignore.Pattern
	for _, d := range dirsForRel(rel) {
		patterns = append(patterns, m.patterns(d)...)
	}
	if len(patterns) == 0 {
		return false
	}
	return gitignore.NewMatcher(patterns).Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

func (m *matcher) patterns(dir string) []gitignore.Pattern {
	if p, ok := m.cache[dir]; ok {
		return p
	}
	if m.cache == nil {
		m.cache = map[string][]gitignore.Pattern{}
	}
	p := readPatterns(m.root, dir)
	m.cache[dir] = p
	return p
}

// dirsForRel returns the directories from "." down to the parent of rel.
func dirsForRel(rel string) []string {
	dirs := []string{"."}
	dir := filepath.Dir(rel)
	if dir == "." {
		return dirs
	}
	cur := ""
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		cur = filepath.Join(cur, part)
		dirs = append(dirs, cur)
	}
	return dirs
}

func readPatterns(root, dir string) []gitignore.Pattern {
	b, err := os.ReadFile(filepath.Join(root, dir, ".gitignore"))
	if err != nil {
		return nil
	}
	var domain []string
	if dir != "." {
		domain = strings.Split(filepath.ToSlash(dir), "/")
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}
