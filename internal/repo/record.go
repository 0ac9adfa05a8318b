package repo

import (
	"os"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/timeval"
)

// Record is the build metadata kept for one tracked source file.
type Record struct {
	Source   fspath.Path
	Artifact fspath.Path
	// ModTime is the source mtime observed at the last successful build.
	// Zero means never built.
	ModTime timeval.Time

	disk    timeval.Time
	fetched bool
}

// DiskModTime returns the source's on-disk modification time. The value is
// fetched on first use and cached until Refresh; a failed stat caches the
// zero Time.
func (r *Record) DiskModTime() timeval.Time {
	if !r.fetched {
		r.disk = statModTime(r.Source)
		r.fetched = true
	}
	return r.disk
}

// Refresh drops the cached on-disk modification time.
func (r *Record) Refresh() {
	r.disk = timeval.Time{}
	r.fetched = false
}

func statModTime(p fspath.Path) timeval.Time {
	fi, err := os.Stat(p.String())
	if err != nil {
		return timeval.Time{}
	}
	return timeval.FromTime(fi.ModTime())
}
