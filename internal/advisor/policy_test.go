package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyIsFresh(t *testing.T) {
	t.Parallel()

	a := DefaultPolicy()
	a.BlockedTerms[0] = "changed"
	a.Scoring.Experience["intern"] = 99
	a.CareerTracks[0].Options[0].Title = "changed"

	b := DefaultPolicy()
	assert.Equal(t, "scholar", b.BlockedTerms[0])
	assert.Equal(t, 5, b.Scoring.Experience["intern"])
	assert.Equal(t, "AI / ML Engineer", b.CareerTracks[0].Options[0].Title)
}

func TestPolicyMerge(t *testing.T) {
	t.Parallel()

	base := DefaultPolicy()
	merged := base.Merge(Policy{
		AllowedTerms:     []string{"golang"},
		QuotaReply:       "busy",
		ChatContextTurns: 2,
		Scoring: ScoringPolicy{
			Base:       50,
			Experience: map[string]int{"Staff": 20},
		},
	})

	assert.Equal(t, []string{"golang"}, merged.AllowedTerms)
	assert.Equal(t, base.BlockedTerms, merged.BlockedTerms)
	assert.Equal(t, "busy", merged.QuotaReply)
	assert.Equal(t, base.FallbackReply, merged.FallbackReply)
	assert.Equal(t, 2, merged.ChatContextTurns)
	assert.Equal(t, 50, merged.Scoring.Base)
	assert.Equal(t, 30, merged.Scoring.SkillBonus)
	assert.Equal(t, map[string]int{"staff": 20}, merged.Scoring.Experience)
	assert.Equal(t, 5, base.Scoring.Experience["intern"])

	assert.Equal(t, base, base.Merge(Policy{}))
}

func TestPolicyDecodesFromConfigMap(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"blocked-terms": []any{"crypto"},
		"skill-keywords": []any{
			map[string]any{"term": "golang", "label": "Go"},
		},
		"career-tracks": []any{
			map[string]any{
				"name":           "cloud",
				"interest-terms": []any{"cloud"},
				"options": []any{
					map[string]any{"title": "Cloud Engineer", "why": "Infra"},
				},
			},
		},
		"scoring": map[string]any{"project-cap": 9},
	}

	var overrides Policy
	require.NoError(t, mapstructure.Decode(raw, &overrides))

	policy := DefaultPolicy().Merge(overrides)
	assert.Equal(t, []string{"crypto"}, policy.BlockedTerms)
	assert.Equal(t, []SkillKeyword{{Term: "golang", Label: "Go"}}, policy.SkillKeywords)
	assert.Equal(t, 9, policy.Scoring.ProjectCap)

	adv := New(&stubGenerator{err: errors.New("down")}, policy, nil, nil)
	got := adv.OnboardingCareers(context.Background(), "Cloud native", "", "")
	assert.Equal(t, []string{"Cloud Engineer", "Software Developer", "Data Analyst"}, titles(got))
}

func TestAdvisorConcurrentUse(t *testing.T) {
	t.Parallel()

	adv, obs := newTestAdvisor(&stubGenerator{text: `{"skills":["Go"],"rating_10":6}`})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis := adv.AnalyzeResume(context.Background(), "go developer")
			assert.Equal(t, []string{"Go"}, analysis.Skills)
			adv.Score(analysis, "go developer")
		}()
	}
	wg.Wait()

	assert.Len(t, obs.calls, 16)
	assert.Len(t, obs.scores, 16)
}
