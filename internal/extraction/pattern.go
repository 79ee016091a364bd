package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/job-intake/internal/types"
)

type fieldMatcher struct {
	name string
	re   *regexp.Regexp
}

// PatternExtractor applies one compiled pattern per field, independently.
type PatternExtractor struct {
	schema   types.FieldSchema
	matchers []fieldMatcher
}

// NewPatternExtractor compiles every field's pattern. A field without a
// pattern is an error, since it could never be filled.
func NewPatternExtractor(schema types.FieldSchema) (*PatternExtractor, error) {
	matchers := make([]fieldMatcher, 0, schema.Len())
	for _, f := range schema.Fields() {
		if f.Pattern == "" {
			return nil, fmt.Errorf("field %q has no pattern", f.Name)
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field %q: invalid pattern: %w", f.Name, err)
		}
		matchers = append(matchers, fieldMatcher{name: f.Name, re: re})
	}
	return &PatternExtractor{schema: schema, matchers: matchers}, nil
}

// Extract runs every matcher against text. The value is the first non-empty
// capture group, or the whole match for patterns without groups.
func (p *PatternExtractor) Extract(ctx context.Context, text string) (types.Extraction, error) {
	out := types.NewExtraction(p.schema)
	if err := ctx.Err(); err != nil {
		return out, err
	}

	for _, m := range p.matchers {
		out[m.name] = matchValue(m.re, text)
	}
	return out, nil
}

func matchValue(re *regexp.Regexp, text string) string {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return ""
	}
	if len(groups) == 1 {
		return strings.TrimSpace(groups[0])
	}
	for _, g := range groups[1:] {
		if v := strings.TrimSpace(g); v != "" {
			return v
		}
	}
	return ""
}
