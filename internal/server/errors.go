package server

import (
	"errors"
	"net/http"

	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/store"
)

var (
	ErrEmailTaken         = store.ErrEmailTaken
	ErrUserNotFound       = store.ErrNotFound
	ErrInvalidCredentials = auth.ErrInvalidCredentials
)

// ErrValidation indicates a malformed or incomplete request.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string { return e.Message }

// ErrPlanLimit indicates the free plan quota for an action is used up.
type ErrPlanLimit struct {
	Message string
}

func (e *ErrPlanLimit) Error() string { return e.Message }

// ErrProOnly indicates a feature reserved for the pro plan.
type ErrProOnly struct {
	Message string
}

func (e *ErrProOnly) Error() string { return e.Message }

// ErrUnauthenticated indicates a missing, invalid or orphaned token.
type ErrUnauthenticated struct {
	Message string
}

func (e *ErrUnauthenticated) Error() string { return e.Message }

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		limit      *ErrPlanLimit
		proOnly    *ErrProOnly
		unauth     *ErrUnauthenticated
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &limit), errors.As(err, &proOnly):
		return http.StatusForbidden
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text sent to the client for err. Internal errors are
// never exposed.
func publicMessage(err error) string {
	var (
		validation *ErrValidation
		limit      *ErrPlanLimit
		proOnly    *ErrProOnly
		unauth     *ErrUnauthenticated
	)

	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &limit):
		return limit.Message
	case errors.As(err, &proOnly):
		return proOnly.Message
	case errors.As(err, &unauth):
		return unauth.Message
	case errors.Is(err, ErrEmailTaken):
		return "Email already used"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	default:
		return "Server error"
	}
}
