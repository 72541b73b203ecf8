package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/metrics"
	"github.com/spigell/career-advisor/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls [][]string

	// entered and release, when set, hold Generate until release is closed.
	entered chan struct{}
	release chan struct{}
}

func (s *stubGenerator) Generate(_ context.Context, parts []string) (string, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]string(nil), parts...))
	return s.text, s.err
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return strings.Join(s.calls[len(s.calls)-1], "\n")
}

type fixture struct {
	t       *testing.T
	srv     *Server
	handler http.Handler
	store   *store.Redis
	mr      *miniredis.Miniredis
	gen     *stubGenerator
	metrics *metrics.Metrics
	tokens  *auth.Tokens
	users   int
}

func newFixture(t *testing.T, gen *stubGenerator, cfg Config) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	m := metrics.New()
	st := store.NewRedis(client)
	adv := advisor.New(gen, advisor.DefaultPolicy(), zap.NewNop(), m)

	srv, err := New(cfg, DefaultPlans(), Deps{
		Advisor:   adv,
		Store:     st,
		Tokens:    tokens,
		Passwords: auth.NewPasswords(auth.MinBcryptCost),
		Metrics:   m,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)

	return &fixture{
		t:       t,
		srv:     srv,
		handler: srv.Handler(),
		store:   st,
		mr:      mr,
		gen:     gen,
		metrics: m,
		tokens:  tokens,
	}
}

// user stores a user on the given plan and returns it with a valid token.
func (f *fixture) user(plan store.Plan) (*store.User, string) {
	f.t.Helper()

	f.users++
	u := &store.User{Name: "Test", Email: "user" + strconv.Itoa(f.users) + "@example.com", Plan: plan}
	require.NoError(f.t, f.store.CreateUser(context.Background(), u))

	token, err := f.tokens.Issue(u.ID)
	require.NoError(f.t, err)
	return u, token
}

func (f *fixture) counters(u *store.User) (chats, scans int) {
	f.t.Helper()

	got, err := f.store.GetUser(context.Background(), u.ID)
	require.NoError(f.t, err)
	return got.ChatCount, got.ResumeScanCount
}

func (f *fixture) setCounter(u *store.User, field string, n int) {
	f.t.Helper()
	f.mr.HSet("user:"+u.ID, field, strconv.Itoa(n))
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) upload(token string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(f.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("resume", filename)
		require.NoError(f.t, err)
		_, err = part.Write(content)
		require.NoError(f.t, err)
	}
	require.NoError(f.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[messageBody](t, rec).Message
}

// words returns a resume-like text of n words built from the given keywords
// followed by neutral filler.
func words(n int, keywords ...string) string {
	out := append([]string(nil), keywords...)
	for len(out) < n {
		out = append(out, "word")
	}
	return strings.Join(out, " ")
}
