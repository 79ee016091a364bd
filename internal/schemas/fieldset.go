package schemas

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-intake/internal/types"
)

// FieldSet is the on-disk form of a custom field schema.
//
//	name: cleaning
//	fields:
//	  - name: Price
//	    description: Price of job
//	    pattern: '(\d+k)'
type FieldSet struct {
	Name   string            `yaml:"name" validate:"required"`
	Fields []types.FieldSpec `yaml:"fields" validate:"required,min=1,dive"`
}

var fieldSetValidator = validator.New()

// ParseFieldSet decodes and validates a YAML (or JSON) field set.
func ParseFieldSet(data []byte) (types.FieldSchema, error) {
	var fs FieldSet
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return types.FieldSchema{}, fmt.Errorf("failed to parse field set: %w", err)
	}
	if err := fieldSetValidator.Struct(fs); err != nil {
		return types.FieldSchema{}, fmt.Errorf("invalid field set: %w", err)
	}
	return types.NewFieldSchema(fs.Name, fs.Fields...)
}

// LoadFieldSet reads a field set file.
func LoadFieldSet(path string) (types.FieldSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FieldSchema{}, fmt.Errorf("failed to read field set: %w", err)
	}
	schema, err := ParseFieldSet(data)
	if err != nil {
		return types.FieldSchema{}, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}
