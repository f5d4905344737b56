// Package cascade carries the shared failure type and metrics for the
// record-mutation cascades (persist -> derive -> aggregate -> current state).
package cascade

import "fmt"

// Error reports that a cascade aborted at a named step. The surrounding
// transaction has been rolled back, so no partial state was left behind.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cascade failed at %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fail wraps err with the step it occurred in.
func Fail(step string, err error) error {
	return &Error{Step: step, Err: err}
}
