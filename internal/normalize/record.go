package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jonathan/job-intake/internal/types"
)

// Record is a finalized extraction: every schema field present with a non-empty value.
type Record struct {
	schema types.FieldSchema
	values map[string]string
}

// Text parses a raw string (fenced JSON, JSON, or "Field: value" lines) and
// validates it against schema. Keys the schema does not declare are dropped.
func Text(raw string, schema types.FieldSchema) (*Record, error) {
	fields, err := ParseFields(raw)
	if err != nil {
		return nil, err
	}
	return Extraction(types.Extraction(fields), schema)
}

// Extraction validates an accumulated extraction and freezes it into a Record.
func Extraction(ext types.Extraction, schema types.FieldSchema) (*Record, error) {
	if missing := ext.Missing(schema); len(missing) > 0 {
		return nil, &IncompleteRecordError{Missing: missing}
	}

	values := make(map[string]string, schema.Len())
	for _, name := range schema.Names() {
		v, _ := ext.Value(name)
		values[name] = v
	}
	return &Record{schema: schema, values: values}, nil
}

// Schema returns the schema the record was validated against.
func (r *Record) Schema() types.FieldSchema {
	return r.schema
}

// Get returns the value of one field.
func (r *Record) Get(name string) string {
	return r.values[name]
}

// Values returns a copy of the record as a plain map.
func (r *Record) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the record as a compact object with keys in schema order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.schema.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, r.values[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Pretty renders the record indented by four spaces with non-ASCII text kept as is.
func (r *Record) Pretty() ([]byte, error) {
	compact, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.WriteString(strings.TrimSuffix(tmp.String(), "\n"))
	return nil
}
