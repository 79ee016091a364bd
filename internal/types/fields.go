// Package types provides type definitions for structured data used throughout the job-intake system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// FieldSpec describes one piece of information a session must collect.
type FieldSpec struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
	// Pattern is the regular expression used by pattern-backed extraction.
	// The first non-empty capture group is taken as the value.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// FieldSchema is an immutable, ordered set of uniquely named fields.
// Order matters only for prompting; it is also the key order of persisted records.
type FieldSchema struct {
	name   string
	fields []FieldSpec
	index  map[string]int
}

// NewFieldSchema builds a schema, rejecting empty or duplicate field names.
func NewFieldSchema(name string, fields ...FieldSpec) (FieldSchema, error) {
	if len(fields) == 0 {
		return FieldSchema{}, fmt.Errorf("schema %q declares no fields", name)
	}

	index := make(map[string]int, len(fields))
	copied := make([]FieldSpec, 0, len(fields))
	for i, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return FieldSchema{}, fmt.Errorf("schema %q: field %d has an empty name", name, i)
		}
		if _, dup := index[f.Name]; dup {
			return FieldSchema{}, fmt.Errorf("schema %q: duplicate field name %q", name, f.Name)
		}
		index[f.Name] = i
		copied = append(copied, f)
	}

	return FieldSchema{name: name, fields: copied, index: index}, nil
}

// MustFieldSchema is NewFieldSchema for static declarations.
func MustFieldSchema(name string, fields ...FieldSpec) FieldSchema {
	s, err := NewFieldSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema identifier (e.g. "job").
func (s FieldSchema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order. The returned slice is a copy.
func (s FieldSchema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns field names in declaration order.
func (s FieldSchema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether name is declared. Matching is exact and case-sensitive.
func (s FieldSchema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Field returns the FieldSpec for name.
func (s FieldSchema) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// Len returns the number of fields.
func (s FieldSchema) Len() int {
	return len(s.fields)
}
