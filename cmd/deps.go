package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/ai"
	"github.com/spigell/career-advisor/internal/ai/gemini"
	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/logger"
	"github.com/spigell/career-advisor/internal/secrets"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func buildLogger() *zap.Logger {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return zl
}

// newGenerator returns the configured model client, or ai.Unavailable when
// the AI is disabled so every operation takes its fallback path.
func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		log.Info("ai is disabled, deterministic fallbacks will be used")
		return ai.Unavailable{}, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gc := cfg.Gemini
	if gc == nil {
		gc = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gc.APIKeyFile,
		Value: gc.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, ai.gemini.api-key or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxLogLength, log)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func newAdvisor(ctx context.Context, config *Config, log *zap.Logger, observer advisor.Observer) (*advisor.Advisor, error) {
	generator, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, fmt.Errorf("building ai generator: %w", err)
	}

	policy := advisor.DefaultPolicy().Merge(config.Policy)
	return advisor.New(generator, policy, log, observer), nil
}

func newTokens(cfg AuthConfig) (*auth.Tokens, error) {
	secret, err := secrets.Load(secrets.Source{
		Name:  "jwt secret",
		File:  cfg.JWTSecretFile,
		Value: cfg.JWTSecret,
		Env:   "JWT_SECRET",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set auth.jwt-secret-file, auth.jwt-secret or JWT_SECRET)", err)
	}

	return auth.NewTokens(secret, cfg.TokenTTL)
}
