package scan

import (
	"path/filepath"
	"testing"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/testutil"
)

func rels(t *testing.T, root string, paths []fspath.Path) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p.String())
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestSourcesFindsSortedSources(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"b.cc":             "",
		"a.cpp":            "",
		"notes.txt":        "",
		"sub/c.c":          "",
		".evd/1234ABCD.cc": "",
	})

	got, err := Sources(fspath.New(root), Options{Skip: []string{".evd"}})
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	want := []string{"a.cpp", "b.cc", "sub/c.c"}
	gotRel := rels(t, root, got)
	if len(gotRel) != len(want) {
		t.Fatalf("got %v want %v", gotRel, want)
	}
	for i := range want {
		if gotRel[i] != want[i] {
			t.Fatalf("got %v want %v", gotRel, want)
		}
	}
}

func TestSourcesRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".gitignore":     "build/\n# comment\nscratch.cc\n",
		"main.cc":        "",
		"scratch.cc":     "",
		"build/gen.cc":   "",
		"sub/.gitignore": "*.c\n",
		"sub/x.c":        "",
		"sub/y.cc":       "",
	})

	got, err := Sources(fspath.New(root), Options{})
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	gotRel := rels(t, root, got)
	want := []string{"main.cc", "sub/y.cc"}
	if len(gotRel) != len(want) || gotRel[0] != want[0] || gotRel[1] != want[1] {
		t.Fatalf("got %v want %v", gotRel, want)
	}

	all, err := Sources(fspath.New(root), Options{NoGitignore: true})
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 sources without gitignore, got %v", rels(t, root, all))
	}
}

func TestDirsForRel(t *testing.T) {
	got := dirsForRel(filepath.Join("a", "b", "c.cc"))
	want := []string{".", "a", filepath.Join("a", "b")}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestIsSource(t *testing.T) {
	cases := map[string]bool{"a.cc": true, "a.cpp": true, "a.c": true, "a.h": false, "cc": false}
	for name, want := range cases {
		if got := IsSource(name); got != want {
			t.Fatalf("IsSource(%q)=%v want %v", name, got, want)
		}
	}
}
