package build

import "errors"

var (
	// ErrRecordNotFound is returned for a source path the repository does not track.
	ErrRecordNotFound = errors.New("no such record")
	// ErrTemplateExists is returned when the template target already exists.
	ErrTemplateExists = errors.New("file exists")
)
