// Package testutil holds fixtures shared by package tests: temporary
// repositories, a fake compiler and mtime control.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/repo"
)

// RequirePOSIXShell skips tests that spawn /bin/sh scripts.
func RequirePOSIXShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process tests require POSIX shell")
	}
}

// WriteTree creates files under root, keyed by slash-separated relative path.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// TempRoot returns a canonical temporary directory. Symlinks are resolved so
// paths compare equal to those produced by fspath.Path.Abs.
func TempRoot(t testing.TB) fspath.Path {
	t.Helper()
	root, err := fspath.New(t.TempDir()).Abs()
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return root
}

// NewRepo initializes a repository in a fresh temporary root and returns the root.
func NewRepo(t testing.TB) fspath.Path {
	t.Helper()
	root := TempRoot(t)
	r, err := repo.Create(root)
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close repo: %v", err)
	}
	return root
}

// fakeCompiler treats each source as a shell script body. A source containing
// a "#fail" line fails to compile. Every invocation is appended to the log.
const fakeCompiler = `#!/bin/sh
echo "$@" >> "%LOG%"
src=$1
out=$3
if grep -q '^#fail' "$src"; then
  echo "error: $src: compilation failed" >&2
  exit 1
fi
{ echo '#!/bin/sh'; cat "$src"; } > "$out" && chmod +x "$out"
`

// Compiler is a fake toolchain installed into a repository.
type Compiler struct {
	Path fspath.Path
	Log  fspath.Path
}

// Invocations returns the argument lines the compiler was called with.
func (c Compiler) Invocations(t testing.TB) []string {
	t.Helper()
	b, err := os.ReadFile(c.Log.String())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read compiler log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

// InstallCompiler writes the fake compiler next to the repository under root
// and configures it as the repository toolchain.
func InstallCompiler(t testing.TB, root fspath.Path) Compiler {
	t.Helper()
	dir := t.TempDir()
	c := Compiler{
		Path: fspath.New(filepath.Join(dir, "cc.sh")),
		Log:  fspath.New(filepath.Join(dir, "cc.log")),
	}
	body := strings.ReplaceAll(fakeCompiler, "%LOG%", c.Log.String())
	if err := os.WriteFile(c.Path.String(), []byte(body), 0o755); err != nil {
		t.Fatalf("write compiler: %v", err)
	}
	r, err := repo.Open(root)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	r.Config().Toolchain = c.Path.String()
	if err := r.Close(); err != nil {
		t.Fatalf("close repo: %v", err)
	}
	return c
}

// WriteSource writes body to name under root and returns its path.
func WriteSource(t testing.TB, root fspath.Path, name, body string) fspath.Path {
	t.Helper()
	p := root.MustJoin(name)
	if err := os.WriteFile(p.String(), []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return p
}

// Touch sets both access and modification time of p.
func Touch(t testing.TB, p fspath.Path, at time.Time) {
	t.Helper()
	if err := os.Chtimes(p.String(), at, at); err != nil {
		t.Fatalf("chtimes %s: %v", p, err)
	}
}
