package playbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafetyReply(t *testing.T) {
	assert.NotEmpty(t, SafetyReply("I feel suicidal"))
	assert.NotEmpty(t, SafetyReply("having SEVERE CHEST PAIN right now"))
	assert.NotEmpty(t, SafetyReply("i can't breathe properly"))
	assert.Contains(t, SafetyReply("I want to die"), "Samaritans")

	assert.Empty(t, SafetyReply("I had a rough day at work"))
	assert.Empty(t, SafetyReply(""))
}

func TestIntentPillar(t *testing.T) {
	cases := []struct {
		in     string
		pillar string
		ok     bool
	}{
		{"I'm so stressed about deadlines", "stress", true},
		{"can't sleep at night", "sleep", true},
		{"I keep snacking in the evening", "nutrition", true},
		{"need to move more", "movement", true},
		{"my desk is full of clutter", "environment", true},
		{"stuck in negative thoughts", "thoughts", true},
		{"feeling lonely lately", "social", true},
		{"tell me a joke", "", false},
	}
	for _, tc := range cases {
		pillar, ok := IntentPillar(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.pillar, pillar, "input %q", tc.in)
	}
}

func TestComposeReplyAdviceRequestListsSuggestions(t *testing.T) {
	out := ComposeReply("sleep", "any tips for sleeping better?")
	assert.Contains(t, out, "two tiny actions")
	assert.Contains(t, out, "(Pillar: Sleep)")
	assert.Contains(t, out, Tagline)
}

func TestComposeReplyVentGetsWarmNudge(t *testing.T) {
	out := ComposeReply("stress", "today was exhausting")
	assert.NotContains(t, out, "two tiny actions")
	assert.Contains(t, out, "one tiny action")
	assert.Contains(t, out, "(Pillar: Stress Management)")
}

func TestComposeReplyUnknownPillar(t *testing.T) {
	out := ComposeReply("karma", "help me")
	assert.Contains(t, out, "what exactly would you like to know")
}
