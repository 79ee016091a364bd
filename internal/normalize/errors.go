// Package normalize turns extraction output into the canonical, schema-complete record.
package normalize

import (
	"fmt"
	"strings"
)

// IncompleteRecordError reports schema fields still missing at finalization.
type IncompleteRecordError struct {
	Missing []string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("incomplete record: missing %s", strings.Join(quoteAll(e.Missing), ", "))
}

// MalformedInputError reports text that is neither JSON nor "Field: value" lines.
type MalformedInputError struct {
	Raw   string
	Cause error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: cannot decode JSON string: %v", e.Cause)
	}
	return "malformed input: neither JSON nor field lines"
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("'%s'", n)
	}
	return out
}
