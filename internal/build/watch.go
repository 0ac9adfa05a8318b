package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/repo"
)

// Watch builds src once and then again whenever its directory reports a
// write to or creation of src, until ctx is done. The repository stays
// open for the whole session and is written back when Watch returns.
// report, when non-nil, receives the outcome of every check.
func (s *Service) Watch(ctx context.Context, src fspath.Path, opts Options, report func(Outcome)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(src.Dir().String()); err != nil {
		return fmt.Errorf("watch %s: %w", src.Dir(), err)
	}

	return s.withRepo(func(r *repo.Repository) error {
		check := func() error {
			out, err := s.build(ctx, r, src, opts)
			if err != nil {
				return err
			}
			if report != nil {
				report(out)
			}
			return nil
		}
		if err := check(); err != nil {
			return err
		}
		target := filepath.Clean(src.String())
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := check(); err != nil {
					return err
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.log().Warn("watcher error", "err", err)
			}
		}
	})
}
