package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/job-intake/internal/llm"
	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/prompts"
	"github.com/jonathan/job-intake/internal/types"
)

// ModelExtractor asks a hosted model to fill the schema from the user's text.
type ModelExtractor struct {
	client llm.Client
	schema types.FieldSchema
	system string
}

// NewModelExtractor renders the system prompt for schema once and keeps it.
func NewModelExtractor(client llm.Client, schema types.FieldSchema) (*ModelExtractor, error) {
	system, err := BuildSystemPrompt(schema)
	if err != nil {
		return nil, err
	}
	return &ModelExtractor{client: client, schema: schema, system: system}, nil
}

// Extract sends text to the model and parses its reply.
// On any error the returned extraction has every field absent.
func (m *ModelExtractor) Extract(ctx context.Context, text string) (types.Extraction, error) {
	empty := types.NewExtraction(m.schema)
	if strings.TrimSpace(text) == "" {
		return empty, nil
	}

	reply, err := m.client.Complete(ctx, llm.Request{System: m.system, User: text})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return empty, &TimeoutError{Cause: err}
		}
		return empty, &ServiceError{Message: m.client.Name(), Cause: err}
	}

	ext, err := ParseReply(reply, m.schema)
	if err != nil {
		return empty, err
	}
	return ext, nil
}

// SystemPrompt returns the rendered instructions sent with every request.
func (m *ModelExtractor) SystemPrompt() string {
	return m.system
}

// BuildSystemPrompt renders the extraction instructions: the field list with
// descriptions plus a JSON skeleton the model should fill.
func BuildSystemPrompt(schema types.FieldSchema) (string, error) {
	var fieldList, skeleton []string
	for _, f := range schema.Fields() {
		desc := f.Description
		if desc == "" {
			desc = f.Name
		}
		fieldList = append(fieldList, fmt.Sprintf("- %s: %s", f.Name, desc))
		skeleton = append(skeleton, fmt.Sprintf("\t%q: string  // %s", f.Name, desc))
	}

	format, err := prompts.Render(prompts.ExtractionFile, prompts.KeyFormatInstructions, map[string]string{
		"Skeleton": strings.Join(skeleton, "\n"),
	})
	if err != nil {
		return "", err
	}

	return prompts.Render(prompts.ExtractionFile, prompts.KeyExtractFields, map[string]string{
		"FieldList":          strings.Join(fieldList, "\n"),
		"FormatInstructions": format,
	})
}

// ParseReply maps a model reply onto schema. The reply may be fenced JSON,
// bare JSON, or "Field: value" lines. Keys are matched exactly against the
// schema's field names; unknown keys are dropped.
func ParseReply(reply string, schema types.FieldSchema) (types.Extraction, error) {
	fields, err := normalize.ParseFields(llm.CleanJSONBlock(reply))
	if err != nil || !mentionsAny(fields, schema) {
		// The object may have been a fragment inside "Field: value" lines.
		if lines, lerr := normalize.ParseFields(reply); lerr == nil {
			fields, err = lines, nil
		}
	}
	if err != nil {
		return types.NewExtraction(schema), &ParseError{Raw: reply, Cause: err}
	}

	out := types.NewExtraction(schema)
	for k, v := range fields {
		if schema.Has(k) {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out, nil
}

func mentionsAny(fields map[string]string, schema types.FieldSchema) bool {
	for k := range fields {
		if schema.Has(k) {
			return true
		}
	}
	return false
}
