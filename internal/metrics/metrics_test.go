package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spigell/career-advisor/internal/advisor"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveVerdict(advisor.BlockedTopic)
	m.ObserveVerdict(advisor.BlockedTopic)
	m.ObserveVerdict(advisor.Allowed)
	m.ObserveCall(advisor.OpChat, advisor.OutcomeQuota)
	m.ObserveScore(76)
	m.ObserveRequest("POST /api/chat/ask", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GateVerdicts.WithLabelValues("blocked_topic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateVerdicts.WithLabelValues("allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AICalls.WithLabelValues("chat", "quota")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST /api/chat/ask", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResumeScores))
}

func TestIndependentRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.ObserveCall(advisor.OpAnalyze, advisor.OutcomeOK)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.AICalls.WithLabelValues("analyze_resume", "ok")))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveVerdict(advisor.NotCareerRelated)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `career_advisor_gate_verdicts_total{verdict="not_career_related"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
