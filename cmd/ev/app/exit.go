package app

import "fmt"

// ExitError carries a child or compiler exit status to main. It has already
// been reported, so main exits with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
func (e *ExitError) ExitCode() int { return e.Code }

// Silent marks the error as already reported.
func (e *ExitError) Silent() bool { return true }

// ExitCode returns nil for 0 and an *ExitError otherwise.
func ExitCode(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
