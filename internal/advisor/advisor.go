// Package advisor turns unreliable model output into fixed-shape career
// guidance results. Every exported operation is total: upstream failures and
// malformed output are logged and replaced by deterministic fallbacks.
package advisor

import (
	"context"

	"github.com/spigell/career-advisor/internal/ai"
	"github.com/spigell/career-advisor/internal/logger"

	"go.uber.org/zap"
)

// ChatTurn is one earlier exchange fed back to the model as context.
type ChatTurn struct {
	UserMessage string `json:"userMessage"`
	AIResponse  string `json:"aiResponse"`
}

// Analysis is the resume analysis contract. Rating10 comes from the model or
// the keyword fallback; Rating is always computed locally by the scorer.
type Analysis struct {
	Skills          []string `json:"skills"`
	MissingSkills   []string `json:"missing_skills"`
	ExperienceLevel string   `json:"experience_level"`
	JobRoles        []string `json:"job_roles"`
	Summary         string   `json:"summary"`
	Rating10        int      `json:"rating_10"`
	Suggestions     []string `json:"suggestions"`
	Rating          int      `json:"rating"`
}

// CareerOption is a single onboarding suggestion.
type CareerOption struct {
	Title string `json:"title" mapstructure:"title"`
	Why   string `json:"why" mapstructure:"why"`
}

// Operation names a model-backed advisor call.
type Operation string

const (
	OpChat    Operation = "chat"
	OpAnalyze Operation = "analyze_resume"
	OpSuggest Operation = "suggest_improvements"
	OpCareers Operation = "onboarding_careers"
)

// careerOptions is the exact number of onboarding suggestions returned.
const careerOptions = 3

// Outcome describes how an operation produced its result.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeQuota    Outcome = "quota"
)

// Observer receives advisor events, typically to export them as metrics.
type Observer interface {
	ObserveVerdict(v Verdict)
	ObserveCall(op Operation, outcome Outcome)
	ObserveScore(score int)
}

type noopObserver struct{}

func (noopObserver) ObserveVerdict(Verdict)         {}
func (noopObserver) ObserveCall(Operation, Outcome) {}
func (noopObserver) ObserveScore(int)               {}

// Advisor is safe for concurrent use; it holds no mutable state.
type Advisor struct {
	generator ai.Generator
	policy    Policy
	gate      *Gate
	scorer    Scorer
	logger    *zap.Logger
	observer  Observer
}

// New builds an Advisor. A nil generator behaves like ai.Unavailable and a nil
// observer discards events.
func New(generator ai.Generator, policy Policy, log *zap.Logger, observer Observer) *Advisor {
	if generator == nil {
		generator = ai.Unavailable{}
	}

	if observer == nil {
		observer = noopObserver{}
	}

	return &Advisor{
		generator: generator,
		policy:    policy,
		gate:      NewGate(policy),
		scorer:    NewScorer(policy.Scoring),
		logger:    logger.WithFields(log),
		observer:  observer,
	}
}

func (a *Advisor) Policy() Policy { return a.policy }

// Classify runs the topic gate and records the verdict.
func (a *Advisor) Classify(message string) Verdict {
	v := a.gate.Classify(message)
	a.observer.ObserveVerdict(v)
	return v
}

func (a *Advisor) Rejection(v Verdict) string {
	return a.gate.Rejection(v)
}

// Score computes the local 0-100 resume score and records it.
func (a *Advisor) Score(analysis Analysis, resumeText string) int {
	score := a.scorer.Score(analysis, resumeText)
	a.observer.ObserveScore(score)
	return score
}

// generate performs the single upstream attempt of an operation. A non-nil
// error has already been logged; the returned kind tells quota apart from
// other failures.
func (a *Advisor) generate(ctx context.Context, op Operation, parts []string) (string, ai.Kind, error) {
	text, err := a.generator.Generate(ctx, parts)
	if err == nil {
		return text, ai.KindUnknown, nil
	}

	kind := ai.KindOf(err, a.policy.QuotaMarkers...)
	logger.WithOperation(a.logger, string(op)).Warn("model call failed, using fallback",
		zap.String(logger.FieldErrorKind, kind.String()),
		zap.Error(err),
	)

	return "", kind, err
}

func (a *Advisor) record(op Operation, outcome Outcome) {
	a.observer.ObserveCall(op, outcome)
}

func (a *Advisor) malformed(op Operation, text string) {
	logger.WithOperation(a.logger, string(op)).Warn("model output did not match the expected shape",
		zap.Int("output_length", len(text)),
	)
	a.record(op, OutcomeFallback)
}

func failureOutcome(kind ai.Kind) Outcome {
	if kind == ai.KindQuota {
		return OutcomeQuota
	}
	return OutcomeFallback
}
