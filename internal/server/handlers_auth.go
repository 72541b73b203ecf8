package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spigell/career-advisor/internal/store"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.check(&req, ""); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	user := &store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Plan:         store.PlanFree,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, authResponse{Token: token, User: viewOf(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.check(&req, "Email and password are required"); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		s.errorResponse(w, r, ErrInvalidCredentials)
		return
	}
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.passwords.Verify(user.PasswordHash, req.Password); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, authResponse{Token: token, User: viewOf(user)})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.store.SetPlan(r.Context(), user.ID, store.PlanPro); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	user.Plan = store.PlanPro

	s.requestLogger(r).Info("subscription upgraded")
	s.jsonResponse(w, http.StatusOK, struct {
		Message string   `json:"message"`
		User    userView `json:"user"`
	}{
		Message: "Subscription upgraded to Pro",
		User:    viewOf(user),
	})
}
