package storage

import "fmt"

// PersistenceError means a record was computed but could not be saved.
type PersistenceError struct {
	Target string
	Cause  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record computed but not saved to %s: %v", e.Target, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
