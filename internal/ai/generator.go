package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces a single text completion for the supplied prompt parts.
type Generator interface {
	Generate(ctx context.Context, parts []string) (string, error)
}

// Kind classifies an upstream model failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindQuota
	KindTransient
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindQuota:
		return "quota"
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error is an upstream failure annotated with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " upstream error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with the given kind.
func NewError(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// QuotaMarkers are the message fragments treated as quota exhaustion when the
// error carries no explicit kind.
var QuotaMarkers = []string{"quota", "Too Many Requests", "exceeded"}

// KindOf reports the kind of err. Errors produced by a Generator that knows the
// upstream protocol carry an explicit kind; anything else is matched against
// markers (QuotaMarkers when none are given).
func KindOf(err error, markers ...string) Kind {
	if err == nil {
		return KindUnknown
	}

	var typed *Error
	if errors.As(err, &typed) && typed.Kind != KindUnknown {
		return typed.Kind
	}

	if len(markers) == 0 {
		markers = QuotaMarkers
	}

	msg := err.Error()
	for _, marker := range markers {
		if marker != "" && strings.Contains(msg, marker) {
			return KindQuota
		}
	}

	return KindUnknown
}

// ErrDisabled is returned by Unavailable.
var ErrDisabled = errors.New("ai provider is disabled")

// Unavailable is a Generator that always fails. It keeps every caller on its
// deterministic fallback path when no provider is configured.
type Unavailable struct{}

func (Unavailable) Generate(_ context.Context, _ []string) (string, error) {
	return "", NewError(KindTransient, fmt.Errorf("generate: %w", ErrDisabled))
}
