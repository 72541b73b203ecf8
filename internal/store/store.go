// Package store persists users, chat turns and resume analyses.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/career-advisor/internal/advisor"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Plan            Plan      `json:"plan"`
	ChatCount       int       `json:"chatCount"`
	ResumeScanCount int       `json:"resumeScanCount"`
	Interest        string    `json:"interest,omitempty"`
	Hobby           string    `json:"hobby,omitempty"`
	Education       string    `json:"education,omitempty"`
	Onboarded       bool      `json:"hasCompletedOnboarding"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	UserMessage string    `json:"userMessage"`
	AIResponse  string    `json:"aiResponse"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ResumeRecord struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user"`
	ResumeText string           `json:"resumeText"`
	Analysis   advisor.Analysis `json:"analysis"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Profile is the onboarding answer set stored on the user.
type Profile struct {
	Interest  string
	Hobby     string
	Education string
}

// Store is the record store used by the HTTP server. Lists are returned newest
// first.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetPlan(ctx context.Context, id string, plan Plan) error
	IncrementChatCount(ctx context.Context, id string) (int, error)
	IncrementResumeScans(ctx context.Context, id string) (int, error)
	DecrementChatCount(ctx context.Context, id string) (int, error)
	DecrementResumeScans(ctx context.Context, id string) (int, error)
	SaveOnboarding(ctx context.Context, id string, profile Profile) error

	AppendChatTurn(ctx context.Context, msg *ChatMessage) error
	RecentChatTurns(ctx context.Context, userID string, limit int) ([]ChatMessage, error)

	AppendAnalysis(ctx context.Context, rec *ResumeRecord) error
	RecentAnalyses(ctx context.Context, userID string, limit int) ([]ResumeRecord, error)
}
