package build

import (
	"context"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/repo"
	"github.com/2toxic/evxx/internal/scan"
	"github.com/2toxic/evxx/internal/timeval"
)

// Staleness classifies a source file in the status listing.
type Staleness string

const (
	StatusFresh     Staleness = "fresh"
	StatusStale     Staleness = "stale"
	StatusMissing   Staleness = "missing"
	StatusUntracked Staleness = "untracked"
)

// Entry is one row of Status. Untracked entries carry only Source.
type Entry struct {
	Source   fspath.Path
	Artifact fspath.Path
	ModTime  timeval.Time
	State    Staleness
}

// Status lists tracked records in source order, followed by untracked
// source files under the repository root when untracked is set.
func (s *Service) Status(ctx context.Context, untracked bool) (root fspath.Path, entries []Entry, err error) {
	err = s.withRepo(func(r *repo.Repository) error {
		root = r.Root()
		for _, rec := range r.Records() {
			entries = append(entries, Entry{
				Source:   rec.Source,
				Artifact: rec.Artifact,
				ModTime:  rec.ModTime,
				State:    staleness(rec),
			})
		}
		if !untracked {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		found, err := scan.Sources(root, scan.Options{Skip: []string{repo.DirName}})
		if err != nil {
			return err
		}
		for _, src := range found {
			if !r.Exists(src) {
				entries = append(entries, Entry{Source: src, State: StatusUntracked})
			}
		}
		return nil
	})
	return root, entries, err
}

func staleness(rec *repo.Record) Staleness {
	if !rec.Source.Exists() {
		return StatusMissing
	}
	if !rec.Artifact.Exists() || NeedsCompile(rec.ModTime, rec.DiskModTime()) {
		return StatusStale
	}
	return StatusFresh
}
