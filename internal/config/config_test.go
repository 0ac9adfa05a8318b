package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults_MissingFileIsEmpty(t *testing.T) {
	d, err := LoadDefaults(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d != (Defaults{}) {
		t.Fatalf("expected empty defaults, got %+v", d)
	}
}

func TestLoadDefaults_ReadsToggles(t *testing.T) {
	dir := t.TempDir()
	content := "{\n  optimize: true\n  symbols: false\n  showSystem: true\n}\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	d, err := LoadDefaults(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.HasOptimize || !d.Optimize {
		t.Fatalf("optimize not read: %+v", d)
	}
	if !d.HasSymbols || d.Symbols {
		t.Fatalf("symbols not read: %+v", d)
	}
	if !d.HasShowSystem || !d.ShowSystem {
		t.Fatalf("showSystem not read: %+v", d)
	}
	if d.HasQuiet || d.HasLocalMacro || d.HasShowUser || d.HasShowMemory {
		t.Fatalf("unexpected fields set: %+v", d)
	}
}

func TestParseDefaults_TypeMismatch(t *testing.T) {
	_, err := ParseDefaults([]byte(`quiet: "yes"`))
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "invalid type for field: quiet (expected bool)"
	if err.Error() != want {
		t.Fatalf("unexpected error\nwant: %s\n got: %s", want, err.Error())
	}
}

func TestParseDefaults_SyntaxError(t *testing.T) {
	_, err := ParseDefaults([]byte("quiet: \n"))
	if err == nil || !strings.HasPrefix(err.Error(), "invalid config:") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}
