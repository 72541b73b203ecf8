package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateClassify(t *testing.T) {
	t.Parallel()

	gate := NewGate(DefaultPolicy())

	tests := []struct {
		name    string
		message string
		expect  Verdict
	}{
		{name: "blocked without allow terms", message: "what is a scholarship for college fees", expect: BlockedTopic},
		{name: "blocked wins over allowed", message: "Need a LOAN to study engineering", expect: BlockedTopic},
		{name: "misspelling", message: "schollarchip for my career", expect: BlockedTopic},
		{name: "homework", message: "solve my homework about software", expect: BlockedTopic},
		{name: "substring false positive", message: "feedback on my resume", expect: BlockedTopic},
		{name: "small talk", message: "hello, how are you?", expect: NotCareerRelated},
		{name: "empty", message: "", expect: NotCareerRelated},
		{name: "allowed", message: "How do I become a backend developer?", expect: Allowed},
		{name: "case insensitive", message: "CAREER options after 12th", expect: Allowed},
		{name: "multi word term", message: "suggest a learning path", expect: Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, gate.Classify(tt.message))
		})
	}
}

func TestGateRejection(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	gate := NewGate(policy)

	assert.Equal(t, policy.BlockedMessage, gate.Rejection(BlockedTopic))
	assert.Equal(t, policy.OffTopicMessage, gate.Rejection(NotCareerRelated))
	assert.Empty(t, gate.Rejection(Allowed))
}

func TestGateCustomPolicy(t *testing.T) {
	t.Parallel()

	gate := NewGate(Policy{BlockedTerms: []string{" Crypto "}, AllowedTerms: []string{"GoLang"}})

	assert.Equal(t, BlockedTopic, gate.Classify("golang crypto jobs"))
	assert.Equal(t, Allowed, gate.Classify("learning golang"))
	assert.Equal(t, NotCareerRelated, gate.Classify("career in rust"))
}

func TestVerdictString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "blocked_topic", BlockedTopic.String())
	assert.Equal(t, "not_career_related", NotCareerRelated.String())
	assert.Equal(t, "unknown", Verdict(42).String())
}
