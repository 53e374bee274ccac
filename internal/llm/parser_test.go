package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planJSON = `{"projectTitle":"Todo App","projectDescription":"desc","phases":[{"title":"Setup","purpose":"init","tasks":[{"description":"git init"}]}]}`

func TestParsePlanResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "clean JSON", input: planJSON},
		{name: "json fence", input: "```json\n" + planJSON + "\n```"},
		{name: "bare fence", input: "```\n" + planJSON + "\n```"},
		{name: "leading prose", input: "Here is your plan: " + planJSON},
		{name: "trailing prose", input: planJSON + "\nHope this helps!"},
		{name: "fence and prose", input: "Sure!\n```json\n" + planJSON + "\n```"},
		{name: "truncated JSON", input: planJSON[:40], wantErr: true},
		{name: "plain prose", input: "I cannot generate a plan for that.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "braces without JSON", input: "{not json at all}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := ParsePlanResponse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Todo App", candidate.ProjectTitle)
			assert.NotEmpty(t, candidate.Phases)
		})
	}
}

func TestParsePlanResponseEmptyObject(t *testing.T) {
	// The model is instructed to return {} when it cannot comply; that
	// parses fine and is rejected later by validation.
	candidate, err := ParsePlanResponse("{}")
	require.NoError(t, err)
	assert.Empty(t, candidate.ProjectTitle)
	assert.Empty(t, candidate.Phases)
}
