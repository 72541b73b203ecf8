package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/store"

	"github.com/go-playground/validator/v10"
)

const maxJSONBytes = 10 << 20

// decodeJSON reads the request body into v. An empty body leaves v untouched
// so that validation reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &ErrValidation{Message: "Invalid JSON body"}
}

// check validates req and turns failures into an ErrValidation. message, when
// set, replaces the generated text.
func (s *Server) check(req any, message string) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	if message != "" {
		return &ErrValidation{Message: message}
	}
	return &ErrValidation{Message: validationMessage(err)}
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "Invalid request"
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(messages, "; ")
}

// currentUser loads the authenticated caller. A token whose user no longer
// exists is treated as unauthenticated.
func (s *Server) currentUser(r *http.Request) (*store.User, error) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		return nil, &ErrUnauthenticated{Message: "Authentication failed"}
	}

	user, err := s.store.GetUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &ErrUnauthenticated{Message: "User not found"}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// userView is the public subset of a user returned by the auth endpoints.
type userView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Plan  store.Plan `json:"plan"`
}

func viewOf(u *store.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Plan: u.Plan}
}
