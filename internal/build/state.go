package build

import (
	"fmt"

	"github.com/2toxic/evxx/internal/timeval"
)

// State is the build state of a tracked source file within one check.
type State int

const (
	Fresh State = iota
	Compiling
	Compiled
	Failed
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Compiling:
		return "compiling"
	case Compiled:
		return "compiled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsTerminal reports whether the check is over.
func IsTerminal(s State) bool {
	return s == Compiled || s == Failed
}

// Transition validates a state change and returns the new state.
func Transition(from, to State) (State, error) {
	if !isAllowedTransition(from, to) {
		return from, fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	return to, nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Fresh:
		// Compiled directly means the source was untouched.
		return to == Compiling || to == Compiled
	case Compiling:
		return to == Compiled || to == Failed
	default:
		return false
	}
}

// NeedsCompile decides staleness: compile when the on-disk time is unknown,
// when the file was never built, or when the recorded time is older.
func NeedsCompile(recorded, onDisk timeval.Time) bool {
	return onDisk.IsZero() || recorded.IsZero() || recorded.Before(onDisk)
}
