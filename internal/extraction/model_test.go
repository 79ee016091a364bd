package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-intake/internal/llm"
	"github.com/jonathan/job-intake/internal/types"
)

type fakeClient struct {
	reply string
	err   error
	reqs  []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func (f *fakeClient) Name() string { return "fake/model" }
func (f *fakeClient) Close() error { return nil }

func TestParseReply(t *testing.T) {
	schema := types.JobSchema()

	tests := []struct {
		name  string
		reply string
		want  types.Extraction
	}{
		{
			name:  "fenced json",
			reply: "```json\n{\"Price\": \"300k\", \"Time\": \"2 hours\", \"Review star\": \"3\", \"Job name\": \"babysitter\"}\n```",
			want:  types.Extraction{"Price": "300k", "Time": "2 hours", "Review star": "3", "Job name": "babysitter"},
		},
		{
			name:  "colon lines fallback",
			reply: "- Price: 300k\n- Time: 2 hours",
			want:  types.Extraction{"Price": "300k", "Time": "2 hours", "Review star": "", "Job name": ""},
		},
		{
			name:  "colon lines with a brace in a value",
			reply: "Price: 300k\nTime: 2 hours\nReview star: 3\nJob name: babysitter {part-time}",
			want:  types.Extraction{"Price": "300k", "Time": "2 hours", "Review star": "3", "Job name": "babysitter {part-time}"},
		},
		{
			name:  "colon lines with a json object value",
			reply: "- Price: 300k\n- Time: {\"amount\": 2}",
			want:  types.Extraction{"Price": "300k", "Time": `{"amount": 2}`, "Review star": "", "Job name": ""},
		},
		{
			name:  "unknown and differently cased keys are dropped",
			reply: `{"price": "300k", "Job Name": "nanny", "Job name": "babysitter", "Mood": "happy"}`,
			want:  types.Extraction{"Price": "", "Time": "", "Review star": "", "Job name": "babysitter"},
		},
		{
			name:  "preamble and numeric values",
			reply: "Here you go:\n{\"Review star\": 4, \"Price\": \"  $20 \"}",
			want:  types.Extraction{"Price": "$20", "Time": "", "Review star": "4", "Job name": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.reply, schema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReply_LowercaseSchemaKeepsFencedKey(t *testing.T) {
	schema := types.MustFieldSchema("lower", types.FieldSpec{Name: "price"})

	got, err := ParseReply("```json\n{\"price\":\"300k\"}\n```", schema)
	require.NoError(t, err)
	assert.Equal(t, types.Extraction{"price": "300k"}, got)
}

func TestParseReply_Unparseable(t *testing.T) {
	reply := "I am not sure what you mean."
	got, err := ParseReply(reply, types.JobSchema())

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, reply, parseErr.Raw)
	assert.Equal(t, []string{"Price", "Time", "Review star", "Job name"}, got.Missing(types.JobSchema()))
}

func TestModelExtractor_Extract(t *testing.T) {
	client := &fakeClient{reply: "```json\n{\"Price\": \"300k\", \"Job name\": \"babysitter\"}\n```"}
	ex, err := NewModelExtractor(client, types.JobSchema())
	require.NoError(t, err)

	got, err := ex.Extract(t.Context(), "300k, babysitter")
	require.NoError(t, err)
	assert.Equal(t, "300k", got["Price"])
	assert.Equal(t, "babysitter", got["Job name"])
	assert.Equal(t, []string{"Time", "Review star"}, got.Missing(types.JobSchema()))

	require.Len(t, client.reqs, 1)
	assert.Equal(t, "300k, babysitter", client.reqs[0].User)
	assert.Equal(t, ex.SystemPrompt(), client.reqs[0].System)
}

func TestModelExtractor_EmptyTextSkipsModel(t *testing.T) {
	client := &fakeClient{reply: `{"Price": "1k"}`}
	ex, err := NewModelExtractor(client, types.JobSchema())
	require.NoError(t, err)

	got, err := ex.Extract(t.Context(), "   ")
	require.NoError(t, err)
	assert.Equal(t, types.NewExtraction(types.JobSchema()), got)
	assert.Empty(t, client.reqs)
}

func TestModelExtractor_Errors(t *testing.T) {
	schema := types.JobSchema()

	t.Run("deadline becomes timeout", func(t *testing.T) {
		client := &fakeClient{err: fmt.Errorf("failed to generate content: %w", context.DeadlineExceeded)}
		ex, err := NewModelExtractor(client, schema)
		require.NoError(t, err)

		got, err := ex.Extract(t.Context(), "300k")
		var timeout *TimeoutError
		require.True(t, errors.As(err, &timeout))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, got.Complete(schema))
		assert.Len(t, got, schema.Len())
	})

	t.Run("other failures become service errors", func(t *testing.T) {
		client := &fakeClient{err: errors.New("401 unauthorized")}
		ex, err := NewModelExtractor(client, schema)
		require.NoError(t, err)

		_, err = ex.Extract(t.Context(), "300k")
		var svc *ServiceError
		require.True(t, errors.As(err, &svc))
		assert.Equal(t, "fake/model", svc.Message)
	})

	t.Run("garbage reply becomes parse error", func(t *testing.T) {
		client := &fakeClient{reply: "no idea"}
		ex, err := NewModelExtractor(client, schema)
		require.NoError(t, err)

		_, err = ex.Extract(t.Context(), "300k")
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "no idea", parseErr.Raw)
	})
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt, err := BuildSystemPrompt(types.JobSchema())
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Price: Price of job")
	assert.Contains(t, prompt, "- Job name: Job name")
	assert.Contains(t, prompt, "\t\"Review star\": string  // Review star")
	assert.Contains(t, prompt, "```json")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildSystemPrompt_Vietnamese(t *testing.T) {
	prompt, err := BuildSystemPrompt(types.VietnameseJobSearchSchema())
	require.NoError(t, err)
	for _, name := range types.VietnameseJobSearchSchema().Names() {
		assert.Contains(t, prompt, "\""+name+"\"")
	}
}
