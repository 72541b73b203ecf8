package advisor

import (
	"context"
	"math"
	"strings"

	"github.com/spigell/career-advisor/internal/ai"
	"github.com/spigell/career-advisor/internal/utils"
)

const (
	unknownExperience = "unknown"
	defaultRating10   = 5
	rawSummaryRunes   = 300
)

// AnalyzeResume asks the model for a structured analysis of resumeText. The
// result always has every field set; Suggestions is empty and Rating is zero
// until the caller fills them in.
func (a *Advisor) AnalyzeResume(ctx context.Context, resumeText string) Analysis {
	prompt := render(analyzePrompt, map[string]string{"RESUME_TEXT": resumeText})

	text, kind, err := a.generate(ctx, OpAnalyze, []string{prompt})
	if err != nil {
		a.record(OpAnalyze, failureOutcome(kind))
		if kind == ai.KindQuota {
			return a.quotaAnalysis()
		}
		return a.keywordAnalysis(resumeText)
	}

	analysis, ok := conformAnalysis(Coerce(strings.TrimSpace(text)))
	if !ok {
		a.malformed(OpAnalyze, text)
		return analysis
	}

	a.record(OpAnalyze, OutcomeOK)
	return analysis
}

// conformAnalysis maps a coerced value onto Analysis field by field. The value
// counts as a real analysis when skills, rating_10 or summary is truthy;
// otherwise the summary falls back to the head of the unparsed text.
func conformAnalysis(v any) (Analysis, bool) {
	obj, _ := v.(map[string]any)
	accepted := obj != nil && (truthy(obj["skills"]) || truthy(obj["rating_10"]) || truthy(obj["summary"]))

	analysis := Analysis{
		Skills:          coerceStrings(obj["skills"]),
		MissingSkills:   coerceStrings(obj["missing_skills"]),
		ExperienceLevel: unknownExperience,
		JobRoles:        coerceStrings(obj["job_roles"]),
		Rating10:        defaultRating10,
		Suggestions:     []string{},
	}

	if truthy(obj["experience_level"]) {
		analysis.ExperienceLevel = coerceString(obj["experience_level"])
	}

	if truthy(obj["summary"]) {
		analysis.Summary = coerceString(obj["summary"])
	} else if raw, ok := v.(Raw); ok {
		analysis.Summary = utils.Head(raw.Text, rawSummaryRunes)
	}

	if rating, ok := obj["rating_10"].(float64); ok {
		analysis.Rating10 = clampRating10(rating)
	}

	return analysis, accepted
}

func (a *Advisor) quotaAnalysis() Analysis {
	return Analysis{
		Skills:          []string{},
		MissingSkills:   []string{a.policy.QuotaMissingSkill},
		ExperienceLevel: unknownExperience,
		JobRoles:        []string{},
		Summary:         a.policy.QuotaSummary,
		Rating10:        defaultRating10,
		Suggestions:     []string{},
	}
}

// keywordAnalysis is the offline analysis used when the model call fails.
func (a *Advisor) keywordAnalysis(resumeText string) Analysis {
	lower := strings.ToLower(resumeText)

	skills := []string{}
	found := map[string]bool{}
	for _, kw := range a.policy.SkillKeywords {
		if kw.Term != "" && strings.Contains(lower, strings.ToLower(kw.Term)) {
			skills = append(skills, kw.Label)
			found[strings.ToLower(kw.Label)] = true
		}
	}

	missing := []string{}
	for _, skill := range a.policy.BaselineMissingSkills {
		if !found[strings.ToLower(skill)] {
			missing = append(missing, skill)
		}
	}

	level := "student"
	if marker := a.policy.InternMarker; marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
		level = "intern"
	}

	return Analysis{
		Skills:          skills,
		MissingSkills:   missing,
		ExperienceLevel: level,
		JobRoles:        cloneStrings(a.policy.FallbackJobRoles),
		Summary:         a.policy.FallbackSummary,
		Rating10:        clampRating10(float64(len(skills)) / 5 * 10),
		Suggestions:     []string{},
	}
}

func clampRating10(v float64) int {
	return int(math.Min(10, math.Max(1, math.Round(v))))
}
