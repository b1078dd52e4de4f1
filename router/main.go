// Package router dispatches each inbound (user, text) turn to the first
// handler that claims it: safety screening, quick tracking commands, the
// baseline flow, the scripted playbook, then the Gemini fallback coach.
package router

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"smartiedev/baseline"
	"smartiedev/logger"
	"smartiedev/modelapi/geminiapi"
	"smartiedev/playbook"
	"smartiedev/tracker"
)

const fallbackReply = "Sorry — I didn't quite catch that. Try **baseline** to get started, or tell me what's on your mind."

type RouterConnectProps struct {
	Logger   *logger.LogMiddleware
	Baseline *baseline.Flow
	Tracker  tracker.Store
	Gemini   *geminiapi.Gemini
}

type Router struct {
	logger   *logger.LogMiddleware
	baseline *baseline.Flow
	tracker  tracker.Store
	gemini   *geminiapi.Gemini
}

func Connect(args RouterConnectProps) *Router {
	return &Router{
		logger:   args.Logger,
		baseline: args.Baseline,
		tracker:  args.Tracker,
		gemini:   args.Gemini,
	}
}

var doneCommands = map[string]bool{
	"done": true, "i did it": true, "check in": true, "check-in": true, "log done": true, "logged": true,
}

var progressCommands = map[string]bool{
	"progress": true, "summary": true, "stats": true,
}

var historyCommands = map[string]bool{
	"history": true, "recent": true,
}

var goalCommands = map[string]bool{
	"goal": true, "show goal": true, "what's my goal": true, "whats my goal": true,
}

// Handle routes one message and always produces a reply string.
func (r *Router) Handle(ctx context.Context, userID string, text string) (string, error) {
	tracer := otel.Tracer("router/Handle")
	ctx, span := tracer.Start(ctx, "Handle")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))
	lower := strings.ToLower(strings.TrimSpace(text))

	// Safety first.
	if s := playbook.SafetyReply(text); s != "" {
		r.logger.Logger(ctx).Warn("[Router] Safety terms detected", zap.String("user_id", userID))
		return s, nil
	}

	// Quick tracking commands.
	switch {
	case doneCommands[lower]:
		return r.handleDone(ctx, userID)
	case progressCommands[lower]:
		return tracker.Summary(ctx, r.tracker, userID, 14)
	case historyCommands[lower]:
		return r.handleHistory(ctx, userID)
	case goalCommands[lower]:
		return r.handleShowGoal(ctx, userID)
	}

	// Baseline flow (start commands and mid-session turns).
	reply, err := r.baseline.Handle(ctx, userID, text)
	if err != nil {
		r.logger.Logger(ctx).Error("[Router] Baseline flow failed", zap.Error(err), zap.String("user_id", userID))
		return "Oops — something went wrong. Try again in a moment.", nil
	}
	if reply != nil {
		return reply.Text, nil
	}

	// Scripted pillar coaching via keyword intent.
	if pillarKey, ok := playbook.IntentPillar(text); ok {
		return playbook.ComposeReply(pillarKey, text), nil
	}

	// Gemini fallback coach.
	if r.gemini != nil {
		answer, err := r.gemini.GetCoachingReply(ctx, text)
		if err == nil && answer != "" {
			return strings.TrimSpace(answer) + "\n" + playbook.Tagline, nil
		}
		r.logger.Logger(ctx).Error("[Router] Gemini fallback failed", zap.Error(err))
	}

	return fallbackReply, nil
}

func (r *Router) handleDone(ctx context.Context, userID string) (string, error) {
	if err := r.tracker.LogDone(ctx, tracker.LogEntry{UserID: userID}); err != nil {
		r.logger.Logger(ctx).Error("[Router] Could not log check-in", zap.Error(err), zap.String("user_id", userID))
		return "I couldn't log that just now — please try again in a moment.", nil
	}

	goal, err := r.tracker.GetGoal(ctx, userID)
	if err != nil {
		return "", err
	}
	if goal != nil {
		return "Nice work — logged for today! ✅\n" +
			"Goal: “" + goal.Text + "” (" + goal.Cadence + ")\n" +
			"Say **progress** to see the last 14 days.", nil
	}
	return "Logged! If you want this tied to a goal, run **baseline** to set one.", nil
}

func (r *Router) handleHistory(ctx context.Context, userID string) (string, error) {
	logs, err := r.tracker.LastN(ctx, userID, 5)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		return "No check-ins yet. Say **done** whenever you complete your goal today.", nil
	}
	lines := []string{"Recent check-ins:"}
	for _, e := range logs {
		lines = append(lines, "• "+e.Date.Format("2006-01-02"))
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Router) handleShowGoal(ctx context.Context, userID string) (string, error) {
	goal, err := r.tracker.GetGoal(ctx, userID)
	if err != nil {
		return "", err
	}
	if goal == nil {
		return "You don't have an active goal yet. Type **baseline** to set one.", nil
	}
	return "Your goal is: “" + goal.Text + "” (cadence: " + goal.Cadence + ", pillar: " + goal.PillarKey + ").", nil
}
