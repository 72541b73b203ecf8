package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/spigell/career-advisor/internal/ai"
	"github.com/spigell/career-advisor/internal/logger"
	"github.com/spigell/career-advisor/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel        = "gemini-2.5-flash"
	defaultMaxLogLength = 200
)

// contentModels is the subset of genai.Models used by the generator.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client and implements ai.Generator.
// Every call is a single attempt.
type Generator struct {
	models    contentModels
	model     string
	maxLogLen int
	logger    *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, maxLogLength, log), nil
}

func newGenerator(models contentModels, model string, maxLogLength int, log *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		models:    models,
		model:     model,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", model),
	}
}

// Generate sends the prompt parts as one user turn and returns the joined text of the response.
func (g *Generator) Generate(ctx context.Context, parts []string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	content := &genai.Content{Role: genai.RoleUser}
	promptLen := 0
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		content.Parts = append(content.Parts, &genai.Part{Text: part})
		promptLen += utf8.RuneCountInString(part)
	}

	if len(content.Parts) == 0 {
		return "", errors.New("prompt must not be empty")
	}

	last := content.Parts[len(content.Parts)-1].Text
	g.logger.Debug("gemini generate content request",
		zap.Int("parts", len(content.Parts)),
		zap.Int("prompt_length", promptLen),
		zap.String("prompt_preview", utils.TruncateForLog(last, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", classify(fmt.Errorf("generate content: %w", err))
	}

	output := responseText(resp)
	if output == "" {
		return "", ai.NewError(ai.KindTransient, errors.New("gemini api returned empty response"))
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// classify attaches an ai.Kind derived from the API status. Errors the API did
// not describe keep KindUnknown and are later matched by message.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ai.NewError(ai.KindTransient, err)
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return ai.NewError(ai.KindUnknown, err)
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return ai.NewError(ai.KindQuota, err)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden ||
		apiErr.Status == "PERMISSION_DENIED" || apiErr.Status == "UNAUTHENTICATED":
		return ai.NewError(ai.KindAuth, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return ai.NewError(ai.KindTransient, err)
	default:
		return ai.NewError(ai.KindUnknown, err)
	}
}
