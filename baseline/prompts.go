package baseline

import (
	"fmt"
	"strings"
	"time"

	"smartiedev/pillars"
	"smartiedev/session"
)

// Replies use **bold** emphasis markup; it is a presentation convention only
// and is passed through to the transports untouched.

func joinLines(lines ...string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func concernPrompt() string {
	return joinLines(
		"Before we start, what's bringing you here today?",
		"Is there a particular health or wellbeing concern on your mind?",
	)
}

func introPrompt() string {
	return joinLines(
		"Thanks for sharing — that will help influence which pillars are most important for you.",
		"Let's do a quick **baseline** across the 8 pillars so I can personalise your plan.",
		"You'll see a one-line description for each pillar. Rate 1–10 (1 = needs support, 10 = thriving).",
		"Type **start** when you're ready. Type **cancel** to exit.",
	)
}

func ratingPrompt(pillarIndex int) string {
	p := pillars.Catalog()[pillarIndex]
	return joinLines(
		fmt.Sprintf("**%s** — %s", p.Label, p.Description),
		"How would you rate this right now? (1–10)",
	)
}

func summaryPrompt(sess session.Session) string {
	var b strings.Builder
	b.WriteString("Here's your snapshot:\n")
	for _, p := range pillars.Catalog() {
		fmt.Fprintf(&b, "• %s: %d\n", p.Label, sess.Ratings[p.Key])
	}
	fmt.Fprintf(&b, "\nYour two lowest: **%s** and **%s**.\n",
		pillars.LabelByKey(sess.Lowest[0]), pillars.LabelByKey(sess.Lowest[1]))
	b.WriteString("Type the one to **focus** first, or type **both** to choose between them.")
	return b.String()
}

func paretoPrompt(lowest []string) string {
	return joinLines(
		"Which one would create the **biggest ripple effect** if we improved it first?",
		fmt.Sprintf("Options: **%s** or **%s**.", pillars.LabelByKey(lowest[0]), pillars.LabelByKey(lowest[1])),
		"Reply with the pillar name.",
	)
}

func advicePrompt(pillarKey string) string {
	p, _ := pillars.ByKey(pillarKey)
	var bullets []string
	for i, s := range p.Suggestions {
		bullets = append(bullets, fmt.Sprintf("%d. %s", i+1, s))
	}
	return joinLines(
		fmt.Sprintf("Great — we'll start with **%s**.", p.Label),
		"Here are a few **doable suggestions** (pick one or type your own):",
		strings.Join(bullets, "\n"),
		"",
		"Reply with the number (1/2/3…) or paste your own SMARTS goal.",
	)
}

func goalScaffoldPrompt(pillarKey string) string {
	return joinLines(
		fmt.Sprintf("Let's shape that into a SMARTS goal for **%s**.", pillars.LabelByKey(pillarKey)),
		"Use: *I will [action] on [days/time] for [duration].*",
		"Example: *I will add 1 portion of fruit at breakfast on weekdays for the next 2 weeks.*",
		"What's your one-sentence goal?",
	)
}

func goalCorrectionPrompt() string {
	return joinLines(
		"Let's make that smaller and time-anchored.",
		"Use: *I will [action] on [days/time] for [duration].*",
		"Example: *I will walk 10 minutes after lunch on Mon/Wed/Fri for the next 2 weeks.*",
	)
}

func checkinPrompt() string {
	return "How often should I check in? **daily**, **3x/week**, or **weekly**."
}

func confirmPrompt(sess session.Session, startDate time.Time) string {
	return joinLines(
		"Perfect. Here's our plan:",
		fmt.Sprintf("• Focus pillar: **%s**", pillars.LabelByKey(sess.FocusPillar)),
		fmt.Sprintf("• Goal: “%s”", sess.DraftGoal),
		fmt.Sprintf("• Check-ins: **%s**", sess.CheckinCadence),
		fmt.Sprintf("• Start: **%s**", startDate.Format("2006-01-02")),
		"",
		"Aim for **80% consistency, 20% flexibility, 100% human**.",
		"Type **baseline** anytime to run a new check-in, or **reset baseline** to start over.",
	)
}
