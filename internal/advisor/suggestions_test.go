package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/career-advisor/internal/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestImprovements(t *testing.T) {
	t.Parallel()

	fallback := DefaultPolicy().FallbackSuggestions

	tests := []struct {
		name    string
		output  string
		err     error
		expect  []string
		outcome Outcome
	}{
		{name: "array in chatter", output: `Here you go: ["Add X", "Add Y"]`, expect: []string{"Add X", "Add Y"}, outcome: OutcomeOK},
		{name: "plain array", output: `["Quantify results"]`, expect: []string{"Quantify results"}, outcome: OutcomeOK},
		{name: "wrapped object", output: `{"suggestions":["A","B"]}`, expect: []string{"A", "B"}, outcome: OutcomeOK},
		{name: "object then array", output: `{"note":"tips below"} ["C"]`, expect: []string{"C"}, outcome: OutcomeOK},
		{name: "empty array", output: `[]`, expect: []string{}, outcome: OutcomeOK},
		{name: "non string items", output: `[1, {"tip":"x"}]`, expect: []string{"1", `{"tip":"x"}`}, outcome: OutcomeOK},
		{name: "prose", output: "Add more projects.", expect: fallback, outcome: OutcomeFallback},
		{name: "object without list", output: `{"tip":"x"}`, expect: fallback, outcome: OutcomeFallback},
		{name: "upstream error", err: errors.New("boom"), expect: fallback, outcome: OutcomeFallback},
		{name: "quota", err: ai.NewError(ai.KindQuota, errors.New("429")), expect: fallback, outcome: OutcomeQuota},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			adv, obs := newTestAdvisor(&stubGenerator{text: tt.output, err: tt.err})

			got := adv.SuggestImprovements(context.Background(), "resume", Analysis{Skills: []string{"Go"}})

			assert.Equal(t, tt.expect, got)
			require.Len(t, obs.calls, 1)
			assert.Equal(t, OpSuggest, obs.calls[0].op)
			assert.Equal(t, tt.outcome, obs.calls[0].outcome)
			requireSchema(t, "suggestions.schema.json", got)
		})
	}
}

func TestSuggestImprovementsFallbackIsACopy(t *testing.T) {
	adv, _ := newTestAdvisor(&stubGenerator{err: errors.New("boom")})

	first := adv.SuggestImprovements(context.Background(), "resume", Analysis{})
	require.Len(t, first, 5)
	first[0] = "changed"

	second := adv.SuggestImprovements(context.Background(), "resume", Analysis{})
	assert.Equal(t, "Add a clear skills section listing technical skills and tools.", second[0])
}

func TestSuggestImprovementsPrompt(t *testing.T) {
	gen := &stubGenerator{text: `["x"]`}
	adv, _ := newTestAdvisor(gen)

	adv.SuggestImprovements(context.Background(), "My resume body", Analysis{Skills: []string{"Go"}, MissingSkills: []string{"Docker"}})

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "My resume body")
	assert.Contains(t, prompt, `"missing_skills": [`)
	assert.Contains(t, prompt, `"Docker"`)
}
