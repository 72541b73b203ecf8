package advisor

import (
	"math"
	"strings"
)

// Scorer computes the deterministic 0-100 resume score.
type Scorer struct {
	policy ScoringPolicy
}

func NewScorer(policy ScoringPolicy) Scorer {
	return Scorer{policy: policy}
}

// Score starts from Base and adds a share of SkillBonus for skills not listed
// as missing, the experience level bonus and PerProjectHit for every project
// keyword present (capped at ProjectCap). Resumes under ShortWords and
// VeryShortWords words each lose LengthPenalty. The result is clamped to [0, 100].
func (s Scorer) Score(analysis Analysis, resumeText string) int {
	p := s.policy
	score := p.Base

	if len(analysis.Skills) > 0 {
		missing := make(map[string]bool, len(analysis.MissingSkills))
		for _, skill := range analysis.MissingSkills {
			missing[strings.ToLower(skill)] = true
		}

		recognized := 0
		for _, skill := range analysis.Skills {
			if !missing[strings.ToLower(skill)] {
				recognized++
			}
		}

		share := math.Min(1, float64(recognized)/float64(len(analysis.Skills)))
		score += int(math.Round(share * float64(p.SkillBonus)))
	}

	score += p.Experience[strings.ToLower(analysis.ExperienceLevel)]

	text := strings.ToLower(resumeText)
	hits := 0
	for _, keyword := range p.ProjectKeywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			hits++
		}
	}
	score += min(p.ProjectCap, hits*p.PerProjectHit)

	words := len(strings.Fields(text))
	if words < p.ShortWords {
		score -= p.LengthPenalty
	}
	if words < p.VeryShortWords {
		score -= p.LengthPenalty
	}

	return max(0, min(100, score))
}
