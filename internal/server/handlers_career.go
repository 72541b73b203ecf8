package server

import (
	"net/http"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/store"
)

type onboardingRequest struct {
	Interest  string `json:"interest" validate:"required"`
	Hobby     string `json:"hobby" validate:"required"`
	Education string `json:"education" validate:"required"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	req.Interest = strings.TrimSpace(req.Interest)
	req.Hobby = strings.TrimSpace(req.Hobby)
	req.Education = strings.TrimSpace(req.Education)

	if err := s.check(&req, "interest, hobby and education are required."); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	careers := s.advisor.OnboardingCareers(r.Context(), req.Interest, req.Hobby, req.Education)

	profile := store.Profile{Interest: req.Interest, Hobby: req.Hobby, Education: req.Education}
	if err := s.store.SaveOnboarding(r.Context(), user.ID, profile); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, struct {
		Careers []advisor.CareerOption `json:"careers"`
	}{Careers: careers})
}
