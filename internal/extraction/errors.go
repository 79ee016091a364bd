package extraction

import (
	"fmt"
	"time"
)

// ParseError means the model replied with something that is neither JSON
// nor "Field: value" lines. Raw holds the reply verbatim.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: model reply not understood: %v", e.Cause)
	}
	return "parse error: model reply not understood"
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TimeoutError means the text-understanding service did not answer in time.
type TimeoutError struct {
	After time.Duration
	Cause error
}

func (e *TimeoutError) Error() string {
	if e.After > 0 {
		return fmt.Sprintf("extraction timed out after %s", e.After)
	}
	return "extraction timed out"
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ServiceError is any other failure of the text-understanding service.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction service failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction service failed: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
