package advisor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

type stubGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls [][]string
}

func (s *stubGenerator) Generate(_ context.Context, parts []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]string(nil), parts...))
	return s.text, s.err
}

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return strings.Join(s.calls[len(s.calls)-1], "\n")
}

type callRecord struct {
	op      Operation
	outcome Outcome
}

type recordingObserver struct {
	mu       sync.Mutex
	verdicts []Verdict
	calls    []callRecord
	scores   []int
}

func (r *recordingObserver) ObserveVerdict(v Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts = append(r.verdicts, v)
}

func (r *recordingObserver) ObserveCall(op Operation, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, callRecord{op: op, outcome: outcome})
}

func (r *recordingObserver) ObserveScore(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, score)
}

func newTestAdvisor(gen *stubGenerator) (*Advisor, *recordingObserver) {
	obs := &recordingObserver{}
	return New(gen, DefaultPolicy(), zap.NewNop(), obs), obs
}

func requireSchema(t *testing.T, schema string, v any) {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", schema))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(data), gojsonschema.NewGoLoader(v))
	require.NoError(t, err)

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		t.Fatalf("%s: %s", schema, strings.Join(msgs, "; "))
	}
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
