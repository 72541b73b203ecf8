// Package server exposes the advisor, accounts and plan limits over a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/logger"
	"github.com/spigell/career-advisor/internal/metrics"
	"github.com/spigell/career-advisor/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Config holds the listener settings.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes"`
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":5000",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   120 * time.Second,
		MaxUploadBytes: 5 << 20,
	}
}

// Plans holds the free plan quotas and history sizes.
type Plans struct {
	FreeChatMessages   int `mapstructure:"free-chat-messages"`
	FreeResumeScans    int `mapstructure:"free-resume-scans"`
	ChatContextTurns   int `mapstructure:"chat-context-turns"`
	ChatHistoryLimit   int `mapstructure:"chat-history-limit"`
	ResumeHistoryLimit int `mapstructure:"resume-history-limit"`
}

func DefaultPlans() Plans {
	return Plans{
		FreeChatMessages:   15,
		FreeResumeScans:    3,
		ChatContextTurns:   5,
		ChatHistoryLimit:   100,
		ResumeHistoryLimit: 50,
	}
}

// withDefaults replaces non-positive values with the defaults.
func (p Plans) withDefaults() Plans {
	d := DefaultPlans()
	for _, f := range []struct {
		dst *int
		def int
	}{
		{&p.FreeChatMessages, d.FreeChatMessages},
		{&p.FreeResumeScans, d.FreeResumeScans},
		{&p.ChatContextTurns, d.ChatContextTurns},
		{&p.ChatHistoryLimit, d.ChatHistoryLimit},
		{&p.ResumeHistoryLimit, d.ResumeHistoryLimit},
	} {
		if *f.dst <= 0 {
			*f.dst = f.def
		}
	}
	return p
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Advisor   *advisor.Advisor
	Store     store.Store
	Tokens    *auth.Tokens
	Passwords auth.Passwords
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Server struct {
	cfg       Config
	plans     Plans
	advisor   *advisor.Advisor
	store     store.Store
	tokens    *auth.Tokens
	passwords auth.Passwords
	metrics   *metrics.Metrics
	logger    *zap.Logger
	validate  *validator.Validate
}

func New(cfg Config, plans Plans, deps Deps) (*Server, error) {
	if deps.Advisor == nil || deps.Store == nil || deps.Tokens == nil {
		return nil, errors.New("server requires an advisor, a store and a token service")
	}

	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaults.MaxUploadBytes
	}

	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	return &Server{
		cfg:       cfg,
		plans:     plans.withDefaults(),
		advisor:   deps.Advisor,
		store:     deps.Store,
		tokens:    deps.Tokens,
		passwords: deps.Passwords,
		metrics:   deps.Metrics,
		logger:    logger.WithFields(deps.Logger),
		validate:  newValidator(),
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Handler builds the routed and instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	protected := auth.Middleware(s.tokens, s.unauthorized)

	s.handle(mux, "GET /health", http.HandlerFunc(s.handleHealth))
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.handle(mux, "POST /api/auth/signup", http.HandlerFunc(s.handleSignup))
	s.handle(mux, "POST /api/auth/login", http.HandlerFunc(s.handleLogin))

	s.handle(mux, "POST /api/chat/ask", protected(http.HandlerFunc(s.handleChatAsk)))
	s.handle(mux, "GET /api/chat/history", protected(http.HandlerFunc(s.handleChatHistory)))

	s.handle(mux, "POST /api/resume/analyze", protected(http.HandlerFunc(s.handleResumeAnalyze)))
	s.handle(mux, "GET /api/resume/history", protected(http.HandlerFunc(s.handleResumeHistory)))

	s.handle(mux, "POST /api/career/onboarding-analyze", protected(http.HandlerFunc(s.handleOnboarding)))
	s.handle(mux, "POST /api/subscription/upgrade", protected(http.HandlerFunc(s.handleUpgrade)))

	return s.withLogging(s.withCORS(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// handle registers h and counts its responses under the route pattern.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.metrics.ObserveRequest(pattern, rec.status)
	}))
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) unauthorized(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusUnauthorized, messageBody{Message: "Authentication failed"})
}

type messageBody struct {
	Message string `json:"message"`
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response failed", zap.Error(err))
	}
}

// errorResponse maps err to a status and a client-safe message. Server side
// failures are logged in full.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.requestLogger(r).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, messageBody{Message: publicMessage(err)})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	userID, _ := auth.UserID(r.Context())
	return s.logger.With(logger.StringFields(logger.StringField{Key: logger.FieldUserID, Value: userID})...)
}
