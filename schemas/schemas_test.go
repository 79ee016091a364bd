package schemas

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jonathan/job-intake/internal/extraction"
	"github.com/jonathan/job-intake/internal/schemas"
	"github.com/jonathan/job-intake/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSetFiles_Load(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			schema, err := schemas.LoadFieldSet(file)
			require.NoError(t, err)
			assert.Greater(t, schema.Len(), 0)

			for _, f := range schema.Fields() {
				assert.NotEmpty(t, f.Description, "field %q should be described", f.Name)
				_, err := regexp.Compile(f.Pattern)
				assert.NoError(t, err, "field %q pattern", f.Name)
			}
		})
	}
}

func TestFieldSetFiles_MatchBuiltins(t *testing.T) {
	for _, name := range types.BuiltinSchemaNames() {
		t.Run(name, func(t *testing.T) {
			builtin, err := types.BuiltinSchema(name)
			require.NoError(t, err)

			schema, err := schemas.LoadFieldSet(name + ".yaml")
			require.NoError(t, err)
			assert.Equal(t, builtin.Name(), schema.Name())
			assert.Equal(t, builtin.Fields(), schema.Fields())
		})
	}
}

func TestHouseCleaningFieldSet_Extracts(t *testing.T) {
	schema, err := schemas.LoadFieldSet("house_cleaning.yaml")
	require.NoError(t, err)

	ex, err := extraction.NewPatternExtractor(schema)
	require.NoError(t, err)

	got, err := ex.Extract(t.Context(), "I can pay $80 to clean 3 rooms on Saturday, we have two cats")
	require.NoError(t, err)
	assert.Equal(t, types.Extraction{
		"Price": "$80",
		"Rooms": "3",
		"Date":  "Saturday",
		"Pets":  "two cats",
	}, got)
}

func TestGeneratedJSONSchema_ValidatesSavedRecord(t *testing.T) {
	schema, err := schemas.LoadFieldSet("house_cleaning.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Price":"$80","Rooms":"3","Date":"Saturday","Pets":"no pets"}`), 0o644))
	assert.NoError(t, schemas.ValidateRecordFile(schema, path))
}
