// Package buildinfo exposes version metadata for the ev binary. Values are
// set at build time, e.g.
//
//	-ldflags "-X 'github.com/2toxic/evxx/internal/buildinfo.Commit=abc1234'"
package buildinfo

import (
	"runtime"
	"strings"
)

var (
	// Version is the release string.
	Version = "0.1"
	// Commit is the VCS commit hash (optional).
	Commit = ""
	// Date is the build time (optional).
	Date = ""
)

// Summary returns a concise single-line version string such as
// "0.1 (commit=abc1234)" or "0.1 (unknown)" when no commit was stamped.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if Date != "" {
		parts = append(parts, "date="+Date)
	}
	if len(parts) == 0 {
		return v + " (unknown)"
	}
	return v + " (" + strings.Join(parts, ", ") + ")"
}

// Info is the structured form printed by "ev version --json".
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"go_os"`
	Arch    string `json:"go_arch"`
}

// Current returns the stamped metadata with the toolchain details.
func Current() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}
