// Package playbook holds the scripted coaching voice: safety screening,
// keyword-to-pillar intent routing, and the per-pillar advice composer used
// when a message is not part of the baseline flow.
package playbook

import (
	"fmt"
	"strings"

	"smartiedev/pillars"
)

const Tagline = "Aim for 80% consistency, 20% flexibility — 100% human."

// Red-flag terms short-circuit everything else and return the crisis script.
var safetyTerms = []string{
	"suicide", "suicidal", "self harm", "self-harm", "kill myself", "end it", "i want to die",
	"chest pain", "severe chest pain", "struggling to breathe", "can't breathe", "cant breathe",
	"fainted", "passing out", "severe bleeding", "stroke", "numb face", "numb arm",
}

const safetyScript = "I'm concerned about your safety. If you're in immediate danger, call emergency services now (999 UK / 112 EU / 911 US).\n\n" +
	"• Mental health crisis (UK): Samaritans 116 123 or text SHOUT to 85258.\n" +
	"• Severe physical symptoms: please seek urgent medical care.\n\n" +
	"Smartie supports lifestyle change, but crises need urgent human help."

// SafetyReply returns the crisis script when the message contains a
// red-flag term, and "" otherwise.
func SafetyReply(text string) string {
	t := strings.ToLower(text)
	for _, term := range safetyTerms {
		if strings.Contains(t, term) {
			return safetyScript
		}
	}
	return ""
}

var intentKeywords = []struct {
	words  []string
	pillar string
}{
	{[]string{"stress", "stressed", "anxious", "anxiety", "tense", "overwhelmed"}, "stress"},
	{[]string{"sleep", "insomnia", "tired", "can't sleep", "cant sleep", "awake"}, "sleep"},
	{[]string{"snack", "snacking", "nutrition", "diet", "food", "eat", "eating", "gut", "ibs"}, "nutrition"},
	{[]string{"exercise", "move", "movement", "workout", "walk", "steps"}, "movement"},
	{[]string{"focus", "clutter", "organise", "organize", "routine", "structure", "environment"}, "environment"},
	{[]string{"negative thoughts", "self talk", "self-talk", "mindset", "thoughts", "motivation"}, "thoughts"},
	{[]string{"emotions", "emotional", "urge", "craving", "binge", "comfort eat", "comfort-eat"}, "emotions"},
	{[]string{"lonely", "isolated", "connection", "friends", "social"}, "social"},
}

// IntentPillar maps free text to a pillar key via keyword matching. The
// first matching keyword group wins.
func IntentPillar(text string) (string, bool) {
	t := strings.ToLower(text)
	for _, group := range intentKeywords {
		for _, w := range group.words {
			if strings.Contains(t, w) {
				return group.pillar, true
			}
		}
	}
	return "", false
}

var adviceMarkers = []string{
	"advice", "tip", "tips", "help", "how do i", "how to", "what should",
	"ideas", "suggest", "suggestion", "recommend", "recommendation", "plan",
	"where to start", "what can i do", "can you help",
}

var warmAck = []string{
	"Yes — I'm here to help.",
	"You're showing up, and that counts.",
	"Totally understandable — let's make the next step easy.",
	"You're not alone in this. We'll keep it simple.",
}

// ComposeReply builds a short scripted coaching reply for a pillar: two
// concrete suggestions when the user asked for advice, otherwise a warm
// nudge toward one tiny action.
func ComposeReply(pillarKey string, userLine string) string {
	p, ok := pillars.ByKey(pillarKey)
	if !ok {
		return "Thank you for asking — what exactly would you like to know?"
	}

	t := strings.ToLower(userLine)
	isAdvice := strings.HasSuffix(strings.TrimSpace(t), "?")
	for _, m := range adviceMarkers {
		if strings.Contains(t, m) {
			isAdvice = true
			break
		}
	}

	if isAdvice {
		s1 := p.Suggestions[0]
		s2 := p.Suggestions[1%len(p.Suggestions)]
		return fmt.Sprintf(
			"Yes — of course. Here are two tiny actions you can try:\n• %s\n• %s\n%s\n(Pillar: %s)",
			s1, s2, Tagline, p.Label)
	}

	return fmt.Sprintf("%s\nPick one tiny action you can repeat this week.\n%s\n(Pillar: %s)",
		warmAck[0], Tagline, p.Label)
}
