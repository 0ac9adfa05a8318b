package repo

import "errors"

var (
	// ErrNotFound is returned when no marker directory exists between the
	// start directory and the filesystem root.
	ErrNotFound = errors.New("repo dir not found")
	// ErrBrokenRepository is returned when the marker directory lacks the metadata file.
	ErrBrokenRepository = errors.New("repo dir is broken")
	// ErrAlreadyExists is returned by Create when a marker directory is already present.
	ErrAlreadyExists = errors.New("repo exists")
	// ErrMalformedRecord is returned when a persisted record cannot be reconstructed.
	ErrMalformedRecord = errors.New("malformed record")
)
