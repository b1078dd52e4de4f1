package baseline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxGoalLength = 180

var (
	commitmentRe = regexp.MustCompile(`(?i)\b(i will|i'll)\b`)
	temporalRe   = regexp.MustCompile(`(?i)\b(daily|weekday|weekend|mon|tue|wed|thu|fri|sat|sun|morning|evening|at \d)`)
)

// ValidGoal reports whether a candidate sentence is an acceptable SMARTS
// goal. The check is purely structural: a length cap, a commitment marker
// ("I will" / "I'll"), and at least one temporal anchor (a day word, part of
// the day, or a clock time). No attempt is made to judge whether the action
// is realistic.
func ValidGoal(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) > maxGoalLength {
		return false
	}
	return commitmentRe.MatchString(trimmed) && temporalRe.MatchString(trimmed)
}
