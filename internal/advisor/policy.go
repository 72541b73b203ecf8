package advisor

import "strings"

// SkillKeyword maps a lower-case term found in resume text to the skill label
// reported by the keyword fallback.
type SkillKeyword struct {
	Term  string `mapstructure:"term" json:"term"`
	Label string `mapstructure:"label" json:"label"`
}

// CareerTrack is one branch of the onboarding fallback. It matches when the
// lower-cased interest contains one of InterestTerms or the hobby contains one
// of HobbyTerms.
type CareerTrack struct {
	Name          string         `mapstructure:"name" json:"name"`
	InterestTerms []string       `mapstructure:"interest-terms" json:"interest_terms"`
	HobbyTerms    []string       `mapstructure:"hobby-terms" json:"hobby_terms"`
	Options       []CareerOption `mapstructure:"options" json:"options"`
}

// ScoringPolicy holds the weights of the resume score.
type ScoringPolicy struct {
	Base            int            `mapstructure:"base"`
	SkillBonus      int            `mapstructure:"skill-bonus"`
	Experience      map[string]int `mapstructure:"experience"`
	ProjectKeywords []string       `mapstructure:"project-keywords"`
	PerProjectHit   int            `mapstructure:"per-project-hit"`
	ProjectCap      int            `mapstructure:"project-cap"`
	ShortWords      int            `mapstructure:"short-words"`
	VeryShortWords  int            `mapstructure:"very-short-words"`
	LengthPenalty   int            `mapstructure:"length-penalty"`
}

// Policy is the static data behind the gate, the prompts and every fallback.
// It is loaded once and never mutated; use DefaultPolicy and Merge to derive
// variants.
type Policy struct {
	BlockedTerms []string `mapstructure:"blocked-terms"`
	AllowedTerms []string `mapstructure:"allowed-terms"`
	QuotaMarkers []string `mapstructure:"quota-markers"`

	BlockedMessage  string `mapstructure:"blocked-message"`
	OffTopicMessage string `mapstructure:"off-topic-message"`

	SystemPrompt     string `mapstructure:"system-prompt"`
	ChatContextTurns int    `mapstructure:"chat-context-turns"`
	QuotaReply       string `mapstructure:"quota-reply"`
	FallbackReply    string `mapstructure:"fallback-reply"`

	SkillKeywords         []SkillKeyword `mapstructure:"skill-keywords"`
	BaselineMissingSkills []string       `mapstructure:"baseline-missing-skills"`
	InternMarker          string         `mapstructure:"intern-marker"`
	FallbackJobRoles      []string       `mapstructure:"fallback-job-roles"`
	FallbackSummary       string         `mapstructure:"fallback-summary"`
	QuotaMissingSkill     string         `mapstructure:"quota-missing-skill"`
	QuotaSummary          string         `mapstructure:"quota-summary"`

	FallbackSuggestions []string `mapstructure:"fallback-suggestions"`

	CareerTracks   []CareerTrack  `mapstructure:"career-tracks"`
	DefaultCareers []CareerOption `mapstructure:"default-careers"`

	Scoring ScoringPolicy `mapstructure:"scoring"`
}

// DefaultPolicy returns a fresh copy of the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		BlockedTerms: []string{
			"scholar",
			"scholarship",
			"scholarships",
			"schollarchip",
			"fees",
			"fee",
			"loan",
			"loans",
			"financial aid",
			"money help",
			"donation",
			"bank",
			"homework",
			"assignment",
		},
		AllowedTerms: []string{
			"career",
			"job",
			"jobs",
			"internship",
			"internships",
			"skill",
			"skills",
			"roadmap",
			"learning path",
			"learning",
			"resume",
			"cv",
			"developer",
			"engineer",
			"engineering",
			"data science",
			"web development",
			"software",
			"it field",
			"tech field",
			"technology",
			"college branch",
			"branch",
			"domain",
			"after 10th",
			"after 12th",
			"btech",
			"b.tech",
			"bsc",
			"b.sc",
			"mca",
			"be",
		},
		QuotaMarkers: []string{"quota", "Too Many Requests", "exceeded"},

		BlockedMessage:  "I'm not allowed to answer scholarship, financial-support, homework or assignment related questions.",
		OffTopicMessage: "I can only answer career-related questions (jobs, skills, learning path, internships, resume, tech fields, etc.).",

		SystemPrompt: "You are a friendly, practical career guidance assistant for students and early-career " +
			"professionals. Only answer career-related questions: skills, learning paths, internships, " +
			"job roles, resume tips, and interview prep. If the question is outside this domain, " +
			"politely say you can't help with that.",
		ChatContextTurns: 6,
		QuotaReply: "Our AI chat is temporarily unavailable due to API quota limits. Please try again later, " +
			"or ask a more general question and we'll help as best we can.",
		FallbackReply: "Sorry — the AI service is currently unavailable. Meanwhile: focus on building 1-2 " +
			"concrete projects, learn data structures and one fullstack stack (e.g. MERN), and document your work on GitHub. " +
			"If you want, paste your resume here and we can give a basic checklist.",

		SkillKeywords: []SkillKeyword{
			{Term: "javascript", Label: "JavaScript"},
			{Term: "react", Label: "React"},
			{Term: "node", Label: "Node.js"},
			{Term: "python", Label: "Python"},
			{Term: "sql", Label: "SQL"},
		},
		BaselineMissingSkills: []string{"Git", "Data Structures", "System Design"},
		InternMarker:          "intern",
		FallbackJobRoles:      []string{"Software Developer"},
		FallbackSummary:       "Fallback analysis: basic keyword-based results (AI unavailable).",
		QuotaMissingSkill:     "AI analysis unavailable due to quota limits",
		QuotaSummary:          "AI resume analysis temporarily unavailable due to API quota limits.",

		FallbackSuggestions: []string{
			"Add a clear skills section listing technical skills and tools.",
			"Include 2–3 projects with bullet points describing what you built and technologies used.",
			"Add links to GitHub/portfolio and deployed demos.",
			"Write a 2-line summary at the top highlighting your strongest skills and goals.",
			"Quantify impact in project bullet points (numbers, metrics).",
		},

		CareerTracks: []CareerTrack{
			{
				Name:          "ai",
				InterestTerms: []string{"ai", "machine"},
				Options: []CareerOption{
					{Title: "AI / ML Engineer", Why: "Strong demand; fits interest in AI."},
					{Title: "Data Scientist", Why: "If you like analytics and research."},
					{Title: "ML Research Intern", Why: "Good starter role to build portfolios."},
				},
			},
			{
				Name:          "web",
				InterestTerms: []string{"web", "frontend"},
				HobbyTerms:    []string{"design"},
				Options: []CareerOption{
					{Title: "Frontend Developer", Why: "Build user-facing web apps using JS/React."},
					{Title: "UI/UX Designer", Why: "If you prefer visual/interaction design."},
					{Title: "Full Stack Developer", Why: "Combine frontend and backend skills."},
				},
			},
		},
		DefaultCareers: []CareerOption{
			{Title: "Software Developer", Why: "Strong starting role for coding enthusiasts."},
			{Title: "Data Analyst", Why: "Great if you enjoy working with data and spreadsheets."},
			{Title: "Quality Assurance / Test Engineer", Why: "Good entry path to product teams and testing."},
		},

		Scoring: ScoringPolicy{
			Base:       40,
			SkillBonus: 30,
			Experience: map[string]int{
				"intern":      5,
				"entry-level": 5,
				"junior":      8,
				"mid-level":   10,
				"senior":      12,
				"lead":        15,
			},
			ProjectKeywords: []string{"project", "github", "portfolio", "deployed", "contributed", "internship"},
			PerProjectHit:   3,
			ProjectCap:      15,
			ShortWords:      150,
			VeryShortWords:  80,
			LengthPenalty:   10,
		},
	}
}

// Merge returns a copy of p where every non-empty field of overrides replaces
// the corresponding field. Scoring is merged field by field.
func (p Policy) Merge(overrides Policy) Policy {
	out := p

	mergeStrings(&out.BlockedTerms, overrides.BlockedTerms)
	mergeStrings(&out.AllowedTerms, overrides.AllowedTerms)
	mergeStrings(&out.QuotaMarkers, overrides.QuotaMarkers)
	mergeString(&out.BlockedMessage, overrides.BlockedMessage)
	mergeString(&out.OffTopicMessage, overrides.OffTopicMessage)
	mergeString(&out.SystemPrompt, overrides.SystemPrompt)
	mergeString(&out.QuotaReply, overrides.QuotaReply)
	mergeString(&out.FallbackReply, overrides.FallbackReply)
	mergeString(&out.InternMarker, overrides.InternMarker)
	mergeString(&out.FallbackSummary, overrides.FallbackSummary)
	mergeString(&out.QuotaMissingSkill, overrides.QuotaMissingSkill)
	mergeString(&out.QuotaSummary, overrides.QuotaSummary)
	mergeStrings(&out.BaselineMissingSkills, overrides.BaselineMissingSkills)
	mergeStrings(&out.FallbackJobRoles, overrides.FallbackJobRoles)
	mergeStrings(&out.FallbackSuggestions, overrides.FallbackSuggestions)

	if overrides.ChatContextTurns > 0 {
		out.ChatContextTurns = overrides.ChatContextTurns
	}
	if len(overrides.SkillKeywords) > 0 {
		out.SkillKeywords = append([]SkillKeyword(nil), overrides.SkillKeywords...)
	}
	if len(overrides.CareerTracks) > 0 {
		out.CareerTracks = append([]CareerTrack(nil), overrides.CareerTracks...)
	}
	if len(overrides.DefaultCareers) > 0 {
		out.DefaultCareers = append([]CareerOption(nil), overrides.DefaultCareers...)
	}

	out.Scoring = p.Scoring.merge(overrides.Scoring)
	return out
}

func (s ScoringPolicy) merge(o ScoringPolicy) ScoringPolicy {
	out := s
	for _, f := range []struct {
		dst *int
		src int
	}{
		{&out.Base, o.Base},
		{&out.SkillBonus, o.SkillBonus},
		{&out.PerProjectHit, o.PerProjectHit},
		{&out.ProjectCap, o.ProjectCap},
		{&out.ShortWords, o.ShortWords},
		{&out.VeryShortWords, o.VeryShortWords},
		{&out.LengthPenalty, o.LengthPenalty},
	} {
		if f.src != 0 {
			*f.dst = f.src
		}
	}

	if len(o.Experience) > 0 {
		out.Experience = make(map[string]int, len(o.Experience))
		for level, bonus := range o.Experience {
			out.Experience[strings.ToLower(level)] = bonus
		}
	}
	mergeStrings(&out.ProjectKeywords, o.ProjectKeywords)

	return out
}

func mergeString(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

func mergeStrings(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = cloneStrings(src)
	}
}
