package build

import (
	"testing"

	"github.com/2toxic/evxx/internal/config"
	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/repo"
	"github.com/2toxic/evxx/internal/timeval"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{Fresh, Compiling, true},
		{Fresh, Compiled, true},
		{Fresh, Failed, false},
		{Compiling, Compiled, true},
		{Compiling, Failed, true},
		{Compiling, Fresh, false},
		{Compiled, Compiling, false},
		{Failed, Compiled, false},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.to)
		if tc.ok {
			if err != nil || got != tc.to {
				t.Fatalf("%s -> %s: got %s, %v", tc.from, tc.to, got, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%s -> %s: expected error", tc.from, tc.to)
		}
		if got != tc.from {
			t.Fatalf("%s -> %s: state changed to %s on error", tc.from, tc.to, got)
		}
	}
	if !IsTerminal(Compiled) || !IsTerminal(Failed) || IsTerminal(Compiling) {
		t.Fatal("unexpected terminal states")
	}
}

func TestNeedsCompile(t *testing.T) {
	zero := timeval.Time{}
	t1 := timeval.New(100, 5)
	t2 := timeval.New(100, 6)
	cases := []struct {
		name             string
		recorded, onDisk timeval.Time
		want             bool
	}{
		{"never built", zero, t1, true},
		{"stat failed", t1, zero, true},
		{"both unknown", zero, zero, true},
		{"untouched", t1, t1, false},
		{"touched", t1, t2, true},
		{"disk older", t2, t1, false},
	}
	for _, tc := range cases {
		if got := NeedsCompile(tc.recorded, tc.onDisk); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCompilerArgs(t *testing.T) {
	rec := &repo.Record{Source: fspath.New("/w/a.cc"), Artifact: fspath.New("/w/.evd/0000ABCD")}
	cfg := &repo.Config{}
	cfg.Set("a_std", "-std=c++17")
	cfg.Set("b_warn", "-Wall  -Wextra")

	got := CompilerArgs(cfg, rec, DefaultOptions())
	want := []string{"g++", "/w/a.cc", "-o", "/w/.evd/0000ABCD", "-std=c++17", "-Wall", "-Wextra", "-g", "-D_LOCAL_SRC"}
	assertArgs(t, got, want)

	cfg.Toolchain = "clang++"
	got = CompilerArgs(cfg, rec, Options{Optimize: true})
	want = []string{"clang++", "/w/a.cc", "-o", "/w/.evd/0000ABCD", "-std=c++17", "-Wall", "-Wextra", "-O3"}
	assertArgs(t, got, want)
}

func assertArgs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args mismatch\nwant: %q\ngot:  %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args mismatch at %d\nwant: %q\ngot:  %q", i, want, got)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	d := config.Defaults{
		Optimize:    true,
		HasOptimize: true,
		Symbols:     false,
		HasSymbols:  true,
		ShowSystem:  true,
	}
	got := DefaultOptions().WithDefaults(d)
	if !got.Optimize || got.Symbols {
		t.Fatalf("set fields not applied: %+v", got)
	}
	if got.ShowSystem {
		t.Fatalf("unset field applied: %+v", got)
	}
	if !got.ShowUser || !got.LocalMacro {
		t.Fatalf("untouched defaults changed: %+v", got)
	}
}
