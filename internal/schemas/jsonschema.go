package schemas

import "github.com/jonathan/job-intake/internal/types"

// DraftURI is the JSON Schema dialect of generated schemas.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// JSONSchemaFor describes a finalized record of schema: an object whose keys
// are exactly the field names, each a string with at least one non-space character.
func JSONSchemaFor(schema types.FieldSchema) map[string]any {
	properties := make(map[string]any, schema.Len())
	required := make([]any, 0, schema.Len())
	for _, f := range schema.Fields() {
		prop := map[string]any{
			"type":    "string",
			"pattern": `\S`,
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		properties[f.Name] = prop
		required = append(required, f.Name)
	}

	return map[string]any{
		"$schema":              DraftURI,
		"title":                schema.Name(),
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
