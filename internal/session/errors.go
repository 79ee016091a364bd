package session

import "fmt"

// AbortedError is returned when a session ends without a complete record.
// Cause is a *normalize.IncompleteRecordError naming the unresolved fields,
// or the context error when the host cancelled the session.
type AbortedError struct {
	Reason string
	Cause  error
}

func (e *AbortedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session aborted: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("session aborted: %s", e.Reason)
}

func (e *AbortedError) Unwrap() error {
	return e.Cause
}
