package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// StripFence removes a leading "```json" (or bare "```") marker and a trailing "```".
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimSpace(s[len("```json"):])
	case strings.HasPrefix(s, "```"):
		s = strings.TrimSpace(s[len("```"):])
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-len("```")])
	}
	return s
}

// ParseFields decodes raw into a flat name → value mapping. Fences are stripped,
// then a strict JSON object is tried; on failure each "Key: value" line becomes
// one entry. Keys are returned verbatim, so callers decide which ones they know.
func ParseFields(raw string) (map[string]string, error) {
	s := StripFence(raw)

	fields, jsonErr := parseJSONObject(s)
	if jsonErr == nil {
		return fields, nil
	}

	if fields := parseLines(s); len(fields) > 0 {
		return fields, nil
	}
	return nil, &MalformedInputError{Raw: raw, Cause: jsonErr}
}

var (
	errNotObject    = errors.New("not a JSON object")
	errTrailingData = errors.New("unexpected data after JSON object")
)

func parseJSONObject(s string) (map[string]string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errTrailingData
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = stringify(v)
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return ""
		}
		return strings.TrimSpace(buf.String())
	}
}

// parseLines splits each line on its first colon. Bullet markers, markdown
// emphasis and surrounding quotes are trimmed; lines without a colon are skipped.
func parseLines(s string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'*`)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimSuffix(value, ",")
		value = strings.Trim(strings.TrimSpace(value), `"'*`)
		out[key] = strings.TrimSpace(value)
	}
	return out
}
