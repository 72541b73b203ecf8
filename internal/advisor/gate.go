package advisor

import "strings"

// Verdict is the outcome of classifying a chat message.
type Verdict int

const (
	Allowed Verdict = iota
	BlockedTopic
	NotCareerRelated
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case BlockedTopic:
		return "blocked_topic"
	case NotCareerRelated:
		return "not_career_related"
	default:
		return "unknown"
	}
}

// Gate rejects chat messages before they reach the model. Both lists are
// case-insensitive substring matches with no word boundaries, so "fee" also
// matches "feedback". The deny list always runs first.
type Gate struct {
	blocked  []string
	allowed  []string
	messages map[Verdict]string
}

func NewGate(policy Policy) *Gate {
	return &Gate{
		blocked: lowerAll(policy.BlockedTerms),
		allowed: lowerAll(policy.AllowedTerms),
		messages: map[Verdict]string{
			BlockedTopic:     policy.BlockedMessage,
			NotCareerRelated: policy.OffTopicMessage,
		},
	}
}

func (g *Gate) Classify(message string) Verdict {
	lower := strings.ToLower(message)

	if containsAny(lower, g.blocked) {
		return BlockedTopic
	}

	if !containsAny(lower, g.allowed) {
		return NotCareerRelated
	}

	return Allowed
}

// Rejection returns the user-facing explanation for a negative verdict and ""
// for Allowed.
func (g *Gate) Rejection(v Verdict) string {
	return g.messages[v]
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			out = append(out, term)
		}
	}
	return out
}
