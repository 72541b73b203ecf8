package advisor

import (
	"context"
	"fmt"

	"github.com/spigell/career-advisor/internal/ai"
)

// ChatReply answers a message that already passed the gate. history is ordered
// oldest first; only the most recent Policy.ChatContextTurns turns are sent.
// The model text is returned unmodified. On failure a canned reply is returned,
// distinguishing quota exhaustion from any other error.
func (a *Advisor) ChatReply(ctx context.Context, message string, history []ChatTurn) string {
	reply, kind, err := a.generate(ctx, OpChat, chatParts(a.policy, message, history))
	if err != nil {
		a.record(OpChat, failureOutcome(kind))
		if kind == ai.KindQuota {
			return a.policy.QuotaReply
		}
		return a.policy.FallbackReply
	}

	a.record(OpChat, OutcomeOK)
	return reply
}

func chatParts(policy Policy, message string, history []ChatTurn) []string {
	if n := policy.ChatContextTurns; n >= 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	parts := make([]string, 0, len(history)+2)
	parts = append(parts, policy.SystemPrompt)
	for _, turn := range history {
		parts = append(parts, fmt.Sprintf("User: %s\nAssistant: %s", turn.UserMessage, turn.AIResponse))
	}
	return append(parts, "User: "+message)
}
