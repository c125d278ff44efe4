package internal

import "fmt"

// NotFoundError reports a missing required input (no source files, or no
// file matching the expected naming convention in the requested window).
// Hint tells the operator how to remediate, typically which prior step to
// run.
type NotFoundError struct {
	What string
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint == "" {
		return e.What
	}
	return fmt.Sprintf("%s (%s)", e.What, e.Hint)
}
