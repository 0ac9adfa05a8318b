// Package repo implements the per-directory build-state repository: a marker
// directory holding a metadata file with one section per tracked source file
// and an unnamed section of build configuration.
//
// A Repository is loaded in full by Open and written back in full by Close.
// There is no locking; concurrent invocations against one directory race.
package repo

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/2toxic/evxx/internal/fspath"
	"github.com/2toxic/evxx/internal/inifmt"
	"github.com/2toxic/evxx/internal/timeval"
)

const (
	// DirName is the marker subdirectory identifying a repository.
	DirName = ".evd"
	// FileName is the metadata file inside the marker subdirectory.
	FileName = "evil"

	keyArtifact = "artifact_path"
	keyModTime  = "mod_time"
)

// Repository is an open build-state repository.
type Repository struct {
	dir     fspath.Path
	records map[fspath.Path]*Record
	config  Config
	rnd     *rand.Rand
	closed  bool
}

// Discover walks from start towards the filesystem root and returns the
// first marker directory found, start included.
func Discover(start fspath.Path) (fspath.Path, error) {
	cur := start
	for {
		candidate := cur.MustJoin(DirName)
		if fi, err := os.Stat(candidate.String()); err == nil && fi.IsDir() {
			return candidate, nil
		}
		if cur.IsRoot() || cur.Dir() == cur {
			break
		}
		cur = cur.Dir()
	}
	return fspath.Path{}, fmt.Errorf("%w (searched from %s)", ErrNotFound, start)
}

// OpenWorkingDir opens the repository discovered from the working directory.
func OpenWorkingDir() (*Repository, error) {
	wd, err := fspath.Cwd()
	if err != nil {
		return nil, err
	}
	if wd, err = wd.Abs(); err != nil {
		return nil, err
	}
	return Open(wd)
}

// Open discovers and loads the repository enclosing start.
func Open(start fspath.Path) (*Repository, error) {
	dir, err := Discover(start)
	if err != nil {
		return nil, err
	}
	meta := dir.MustJoin(FileName)
	f, err := os.Open(meta.String())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing %s", ErrBrokenRepository, meta)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, _, err := inifmt.Parse(f, inifmt.Strict)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", meta, err)
	}

	r := &Repository{
		dir:     dir,
		records: make(map[fspath.Path]*Record, len(doc)),
		config:  configFromSection(doc[""]),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for name, sec := range doc {
		if name == "" {
			continue
		}
		rec, err := recordFromSection(name, sec)
		if err != nil {
			return nil, err
		}
		r.records[rec.Source] = rec
	}
	return r, nil
}

func recordFromSection(name string, sec inifmt.Section) (*Record, error) {
	artifact := sec[keyArtifact]
	if artifact == "" {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrMalformedRecord, name, keyArtifact)
	}
	mt, err := timeval.Parse(sec[keyModTime])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	return &Record{
		Source:   fspath.New(name),
		Artifact: fspath.New(artifact),
		ModTime:  mt,
	}, nil
}

// Create initializes a repository in at and opens it.
func Create(at fspath.Path) (*Repository, error) {
	dir := at.MustJoin(DirName)
	if dir.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, dir)
	}
	if err := os.Mkdir(dir.String(), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(dir.MustJoin(FileName).String(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return Open(at)
}

// Dir returns the marker directory, where artifacts are placed.
func (r *Repository) Dir() fspath.Path { return r.dir }

// Root returns the directory containing the marker directory.
func (r *Repository) Root() fspath.Path { return r.dir.Dir() }

// Config returns the mutable repository configuration.
func (r *Repository) Config() *Config { return &r.config }

// Exists reports whether src is tracked.
func (r *Repository) Exists(src fspath.Path) bool {
	_, ok := r.records[src]
	return ok
}

// Lookup returns the record for src.
func (r *Repository) Lookup(src fspath.Path) (*Record, bool) {
	rec, ok := r.records[src]
	return rec, ok
}

// GetOrCreate returns the record for src, creating it with a fresh artifact
// name and a zero ModTime when src is untracked. created reports whether a
// record was inserted.
func (r *Repository) GetOrCreate(src fspath.Path) (rec *Record, created bool) {
	if rec, ok := r.records[src]; ok {
		return rec, false
	}
	rec = &Record{
		Source:   src,
		Artifact: r.newArtifactPath(),
	}
	r.records[src] = rec
	return rec, true
}

// newArtifactPath picks a random name that collides neither with a
// filesystem entry in the marker directory nor with another record.
func (r *Repository) newArtifactPath() fspath.Path {
	taken := make(map[fspath.Path]struct{}, len(r.records))
	for _, rec := range r.records {
		taken[rec.Artifact] = struct{}{}
	}
	for {
		p := r.dir.MustJoin(fmt.Sprintf("%08X", r.rnd.Uint32()))
		if _, dup := taken[p]; dup || p.Exists() {
			continue
		}
		return p
	}
}

// Records returns the records sorted by source path.
func (r *Repository) Records() []*Record {
	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source.Less(out[j].Source) })
	return out
}

// Document renders the full repository state.
func (r *Repository) Document() inifmt.Document {
	doc := inifmt.Document{}
	if sec := r.config.section(); len(sec) > 0 {
		doc[""] = sec
	}
	for src, rec := range r.records {
		doc[src.String()] = inifmt.Section{
			keyArtifact: rec.Artifact.String(),
			keyModTime:  rec.ModTime.Encode(),
		}
	}
	return doc
}

// Close writes the full repository snapshot over the metadata file. Only
// the first call writes.
func (r *Repository) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true
	var buf bytes.Buffer
	if err := inifmt.Serialize(&buf, r.Document()); err != nil {
		return err
	}
	meta := r.dir.MustJoin(FileName)
	if err := writeFileAtomic(meta.String(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", meta, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
