package advisor

import (
	"context"
	"encoding/json"
	"strings"
)

// SuggestImprovements asks the model for short resume improvement tips. An
// array at the top level, under "suggestions", or anywhere between the first
// '[' and last ']' is accepted as is, even when empty. Anything else yields the
// static Policy.FallbackSuggestions.
func (a *Advisor) SuggestImprovements(ctx context.Context, resumeText string, analysis Analysis) []string {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		analysisJSON = []byte("{}")
	}

	prompt := render(suggestionsPrompt, map[string]string{
		"RESUME_TEXT":   resumeText,
		"ANALYSIS_JSON": string(analysisJSON),
	})

	text, kind, err := a.generate(ctx, OpSuggest, []string{prompt})
	if err != nil {
		a.record(OpSuggest, failureOutcome(kind))
		return cloneStrings(a.policy.FallbackSuggestions)
	}

	text = strings.TrimSpace(text)
	if list, ok := suggestionList(Coerce(text), text); ok {
		a.record(OpSuggest, OutcomeOK)
		return list
	}

	a.malformed(OpSuggest, text)
	return cloneStrings(a.policy.FallbackSuggestions)
}

func suggestionList(v any, text string) ([]string, bool) {
	switch val := v.(type) {
	case []any:
		return coerceStrings(val), true
	case map[string]any:
		if list, ok := val["suggestions"].([]any); ok {
			return coerceStrings(list), true
		}
	}

	if list, ok := extractArray(text); ok {
		return coerceStrings(list), true
	}

	return nil, false
}
