// Package extraction turns free text into a partial field mapping.
//
// Two interchangeable strategies satisfy Extractor: ModelExtractor delegates
// to a hosted model through llm.Client, PatternExtractor applies one regular
// expression per field. Both always return every schema field as a key, with
// "" for fields they could not find.
package extraction

import (
	"context"
	"fmt"

	"github.com/jonathan/job-intake/internal/llm"
	"github.com/jonathan/job-intake/internal/types"
)

// Strategy selects an Extractor implementation.
type Strategy string

// Supported strategies.
const (
	StrategyModel   Strategy = "model"
	StrategyPattern Strategy = "pattern"
)

// Extractor produces a best-effort field mapping from raw text.
// Empty text yields all fields absent and no error.
type Extractor interface {
	Extract(ctx context.Context, text string) (types.Extraction, error)
}

// New builds the extractor for strategy. client is only used by StrategyModel.
func New(strategy Strategy, schema types.FieldSchema, client llm.Client) (Extractor, error) {
	switch strategy {
	case StrategyModel:
		if client == nil {
			return nil, fmt.Errorf("model extraction requires an llm client")
		}
		return NewModelExtractor(client, schema)
	case StrategyPattern:
		return NewPatternExtractor(schema)
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %q", strategy)
	}
}
