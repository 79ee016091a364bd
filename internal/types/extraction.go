package types

import "strings"

// Extraction maps field names to extracted values.
// A missing key and an empty value both mean "not known yet".
type Extraction map[string]string

// NewExtraction returns an extraction with every schema field explicitly recorded as absent.
func NewExtraction(schema FieldSchema) Extraction {
	e := make(Extraction, schema.Len())
	for _, name := range schema.Names() {
		e[name] = ""
	}
	return e
}

// Value returns the trimmed value for name and whether it is non-empty.
func (e Extraction) Value(name string) (string, bool) {
	v := strings.TrimSpace(e[name])
	return v, v != ""
}

// Merge applies next on top of e using last-non-empty-write-wins:
// a non-empty value in next replaces the current one, an empty value never erases.
// The receiver is not modified.
func (e Extraction) Merge(next Extraction) Extraction {
	out := make(Extraction, len(e)+len(next))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range next {
		if strings.TrimSpace(v) == "" {
			if _, ok := out[k]; !ok {
				out[k] = ""
			}
			continue
		}
		out[k] = v
	}
	return out
}

// Missing returns the schema fields without a value, in declaration order.
func (e Extraction) Missing(schema FieldSchema) []string {
	var missing []string
	for _, name := range schema.Names() {
		if _, ok := e.Value(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether every schema field has a non-empty value.
func (e Extraction) Complete(schema FieldSchema) bool {
	return len(e.Missing(schema)) == 0
}

// Found returns the names that carry a value, in schema order.
func (e Extraction) Found(schema FieldSchema) []string {
	var found []string
	for _, name := range schema.Names() {
		if _, ok := e.Value(name); ok {
			found = append(found, name)
		}
	}
	return found
}

// Restrict drops keys the schema does not declare.
func (e Extraction) Restrict(schema FieldSchema) Extraction {
	out := make(Extraction, len(e))
	for k, v := range e {
		if schema.Has(k) {
			out[k] = v
		}
	}
	return out
}
