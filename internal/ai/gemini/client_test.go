package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/spigell/career-advisor/internal/ai"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

type modelCall struct {
	model    string
	contents []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents})
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGeneratorSendsPartsAsSingleTurn(t *testing.T) {
	models := &fakeModels{resp: textResponse("  first ", "second")}
	g := newGenerator(models, "gemini-pro", 0, zap.NewNop())

	output, err := g.Generate(context.Background(), []string{"system", "  ", "User: hi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected a single call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", call.model)
	}

	if len(call.contents) != 1 {
		t.Fatalf("expected one content, got %d", len(call.contents))
	}

	parts := call.contents[0].Parts
	if len(parts) != 2 || parts[0].Text != "system" || parts[1].Text != "User: hi" {
		t.Fatalf("unexpected parts: %+v", parts)
	}
}

func TestGeneratorDefaultsModel(t *testing.T) {
	g := newGenerator(&fakeModels{}, "  ", 0, nil)
	if g.model != DefaultModel {
		t.Fatalf("expected default model, got %q", g.model)
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{resp: textResponse("unused")}
	g := newGenerator(models, "m", 0, zap.NewNop())

	if _, err := g.Generate(context.Background(), []string{" ", ""}); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	if len(models.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(models.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	g := newGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, "m", 0, zap.NewNop())

	_, err := g.Generate(context.Background(), []string{"prompt"})
	if err == nil {
		t.Fatal("expected error for empty response")
	}

	if ai.KindOf(err) != ai.KindTransient {
		t.Fatalf("expected transient kind, got %s", ai.KindOf(err))
	}
}

func TestGeneratorDoesNotRetry(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}
	g := newGenerator(models, "m", 0, zap.NewNop())

	if _, err := g.Generate(context.Background(), []string{"prompt"}); err == nil {
		t.Fatal("expected error")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorClassifiesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect ai.Kind
	}{
		{
			name:   "quota by code",
			err:    genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Message: "slow down"},
			expect: ai.KindQuota,
		},
		{
			name:   "auth",
			err:    genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED"},
			expect: ai.KindAuth,
		},
		{
			name:   "server error",
			err:    genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"},
			expect: ai.KindTransient,
		},
		{
			name:   "deadline",
			err:    context.DeadlineExceeded,
			expect: ai.KindTransient,
		},
		{
			name:   "untyped quota message",
			err:    errors.New("you exceeded your current quota"),
			expect: ai.KindQuota,
		},
		{
			name:   "untyped other",
			err:    errors.New("dial tcp: connection refused"),
			expect: ai.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newGenerator(&fakeModels{err: tt.err}, "m", 0, zap.NewNop())

			_, err := g.Generate(context.Background(), []string{"prompt"})
			if err == nil {
				t.Fatal("expected error")
			}

			if got := ai.KindOf(err); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestGeneratorLogsWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	g := newGenerator(&fakeModels{resp: textResponse("ok")}, "gemini-x", 4, zap.New(core))

	if _, err := g.Generate(context.Background(), []string{"a long prompt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["ai_provider"] != "gemini" || ctx["ai_model"] != "gemini-x" {
		t.Fatalf("missing common fields: %v", ctx)
	}

	if ctx["prompt_preview"] != "a lo..." {
		t.Fatalf("expected truncated preview, got %q", ctx["prompt_preview"])
	}
}
