package advisor

import (
	"context"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// OnboardingCareers returns exactly three career options for the given
// profile. Model answers shaped as {"careers": [...]} or as a bare array are
// accepted; bare strings become titles with an empty reason. Short lists are
// padded from the keyword fallback without repeating titles.
func (a *Advisor) OnboardingCareers(ctx context.Context, interest, hobby, education string) []CareerOption {
	prompt := render(careersPrompt, map[string]string{
		"INTEREST":  interest,
		"HOBBY":     hobby,
		"EDUCATION": education,
	})

	fallback := a.fallbackCareers(interest, hobby)

	text, kind, err := a.generate(ctx, OpCareers, []string{prompt})
	if err != nil {
		a.record(OpCareers, failureOutcome(kind))
		return fallback
	}

	text = strings.TrimSpace(text)
	options := careerList(Coerce(text))
	if len(options) == 0 {
		a.malformed(OpCareers, text)
		return fallback
	}

	a.record(OpCareers, OutcomeOK)
	return padCareers(options, fallback)
}

func careerList(v any) []CareerOption {
	var items []any
	switch val := v.(type) {
	case map[string]any:
		items, _ = val["careers"].([]any)
	case []any:
		items = val
	}

	options := make([]CareerOption, 0, careerOptions)
	for _, item := range items {
		if len(options) == careerOptions {
			break
		}

		var option CareerOption
		switch val := item.(type) {
		case string:
			option.Title = strings.TrimSpace(val)
		case map[string]any:
			if err := decodeCareer(val, &option); err != nil {
				continue
			}
		default:
			continue
		}

		if option.Title != "" {
			options = append(options, option)
		}
	}

	return options
}

func decodeCareer(in map[string]any, out *CareerOption) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(in); err != nil {
		return err
	}

	out.Title = strings.TrimSpace(out.Title)
	out.Why = strings.TrimSpace(out.Why)
	return nil
}

func padCareers(options, fallback []CareerOption) []CareerOption {
	if len(options) > careerOptions {
		options = options[:careerOptions]
	}

	seen := make(map[string]bool, len(options))
	for _, option := range options {
		seen[strings.ToLower(option.Title)] = true
	}

	for _, option := range fallback {
		if len(options) >= careerOptions {
			break
		}
		if !seen[strings.ToLower(option.Title)] {
			options = append(options, option)
			seen[strings.ToLower(option.Title)] = true
		}
	}

	return options
}

// fallbackCareers picks the first career track whose interest or hobby terms
// match and tops it up from the default careers.
func (a *Advisor) fallbackCareers(interest, hobby string) []CareerOption {
	lowerInterest := strings.ToLower(interest)
	lowerHobby := strings.ToLower(hobby)

	var picked []CareerOption
	for _, track := range a.policy.CareerTracks {
		if containsAny(lowerInterest, lowerAll(track.InterestTerms)) || containsAny(lowerHobby, lowerAll(track.HobbyTerms)) {
			picked = append(picked, track.Options...)
			break
		}
	}

	return padCareers(picked, a.policy.DefaultCareers)
}
