package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/store"
)

type askRequest struct {
	Message string `json:"message"`
}

type askResponse struct {
	Reply  string `json:"reply"`
	ChatID string `json:"chatId"`
}

func (s *Server) handleChatAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, r, &ErrValidation{Message: "Message is required"})
		return
	}

	if verdict := s.advisor.Classify(req.Message); verdict != advisor.Allowed {
		s.errorResponse(w, r, &ErrValidation{Message: s.advisor.Rejection(verdict)})
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	limitErr := &ErrPlanLimit{Message: "Free plan chat limit reached. Upgrade to Pro."}
	if user.Plan == store.PlanFree && user.ChatCount >= s.plans.FreeChatMessages {
		s.errorResponse(w, r, limitErr)
		return
	}

	release, err := s.reserve(r, user, s.chatCounter(), s.plans.FreeChatMessages, limitErr)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	recent, err := s.store.RecentChatTurns(r.Context(), user.ID, s.plans.ChatContextTurns)
	if err != nil {
		release()
		s.errorResponse(w, r, err)
		return
	}

	reply := s.advisor.ChatReply(r.Context(), req.Message, chatHistory(recent))

	msg := &store.ChatMessage{
		UserID:      user.ID,
		UserMessage: req.Message,
		AIResponse:  reply,
	}
	if err := s.store.AppendChatTurn(r.Context(), msg); err != nil {
		release()
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, askResponse{Reply: reply, ChatID: msg.ID})
}

// chatHistory converts stored turns, newest first, into oldest-first context.
func chatHistory(recent []store.ChatMessage) []advisor.ChatTurn {
	turns := make([]advisor.ChatTurn, 0, len(recent))
	for _, m := range recent {
		turns = append(turns, advisor.ChatTurn{UserMessage: m.UserMessage, AIResponse: m.AIResponse})
	}
	slices.Reverse(turns)
	return turns
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if user.Plan != store.PlanPro {
		s.errorResponse(w, r, &ErrProOnly{Message: "Chat history is available for Pro users only."})
		return
	}

	history, err := s.store.RecentChatTurns(r.Context(), user.ID, s.plans.ChatHistoryLimit)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, struct {
		History []store.ChatMessage `json:"history"`
	}{History: history})
}
