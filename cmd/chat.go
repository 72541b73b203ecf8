package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/server"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the career assistant in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := buildLogger()
		adv := localAdvisor(logger)

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		session := newChatSession(adv, config.Plans.ChatContextTurns)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Ask a career question. Type exit or press Ctrl+C to leave.")

		for {
			p := promptui.Prompt{Label: "You"}
			message, err := p.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			if err != nil {
				logger.Fatal("reading input", zap.Error(err))
			}

			message = strings.TrimSpace(message)
			switch strings.ToLower(message) {
			case "":
				continue
			case "exit", "quit":
				return
			}

			reply, _ := session.ask(cmd.Context(), message)
			fmt.Fprintf(out, "Advisor: %s\n", reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatSession keeps the in-memory history of one terminal conversation.
type chatSession struct {
	advisor *advisor.Advisor
	turns   int
	history []advisor.ChatTurn
}

func newChatSession(adv *advisor.Advisor, turns int) *chatSession {
	if turns <= 0 {
		turns = server.DefaultPlans().ChatContextTurns
	}
	return &chatSession{advisor: adv, turns: turns}
}

// ask returns the reply to message, or the gate rejection and false when the
// message is not allowed. Rejected messages are not kept in the history.
func (s *chatSession) ask(ctx context.Context, message string) (string, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	if verdict := s.advisor.Classify(message); verdict != advisor.Allowed {
		return s.advisor.Rejection(verdict), false
	}

	reply := s.advisor.ChatReply(ctx, message, s.history)

	s.history = append(s.history, advisor.ChatTurn{UserMessage: message, AIResponse: reply})
	if len(s.history) > s.turns {
		s.history = s.history[len(s.history)-s.turns:]
	}
	return reply, true
}
