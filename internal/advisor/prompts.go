package advisor

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analyze.md
	analyzePrompt string
	//go:embed prompts/suggestions.md
	suggestionsPrompt string
	//go:embed prompts/careers.md
	careersPrompt string
)

// render fills {{KEY}} placeholders. Values are inserted verbatim.
func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}
