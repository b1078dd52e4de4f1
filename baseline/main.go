// Package baseline implements the guided assessment flow: the user rates the
// eight pillars, picks a focus pillar from the two lowest, shapes a SMARTS
// goal, chooses a check-in cadence, and the finished plan is written to the
// tracker store.
package baseline

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"smartiedev/logger"
	"smartiedev/pillars"
	"smartiedev/session"
	"smartiedev/tracker"
)

// Reply is the flow's outbound turn. A nil *Reply from Handle means the
// message is not part of a baseline flow and the caller should fall through
// to its next handler.
type Reply struct {
	Text string
}

type FlowConnectProps struct {
	Logger   *logger.LogMiddleware
	Sessions session.Store
	Tracker  tracker.Store
}

// Flow is the baseline state machine. It owns all session mutation; stores
// are injected so backends can be swapped without touching transition logic.
type Flow struct {
	logger   *logger.LogMiddleware
	sessions session.Store
	tracker  tracker.Store
	now      func() time.Time
}

func Connect(args FlowConnectProps) *Flow {
	return &Flow{
		logger:   args.Logger,
		sessions: args.Sessions,
		tracker:  args.Tracker,
		now:      time.Now,
	}
}

// Control tokens are recognized case-insensitively in every phase and always
// outrank phase-specific parsing.
var startCommands = map[string]bool{"baseline": true, "start baseline": true}
var cancelCommands = map[string]bool{"cancel": true, "exit": true}

const resetCommand = "reset baseline"

var affirmatives = map[string]bool{
	"start": true, "yes": true, "y": true, "ok": true, "okay": true, "go": true,
}

var cadences = map[string]bool{"daily": true, "3x/week": true, "weekly": true}

// Handle processes one inbound turn for a user. It returns nil when the
// message neither starts nor continues a baseline flow.
func (f *Flow) Handle(ctx context.Context, userID string, text string) (*Reply, error) {
	tracer := otel.Tracer("baseline/Handle")
	ctx, span := tracer.Start(ctx, "Handle")
	defer span.End()

	t := strings.TrimSpace(text)
	lower := strings.ToLower(t)
	span.SetAttributes(attribute.String("user.id", userID))

	if startCommands[lower] {
		sess := session.New(userID)
		sess.Phase = session.PhaseConcern
		sess.StartedAt = f.now()
		if err := f.sessions.Put(ctx, sess); err != nil {
			span.RecordError(err)
			return nil, err
		}
		f.logger.Logger(ctx).Info("[Baseline] Flow started", zap.String("user_id", userID))
		return &Reply{Text: concernPrompt()}, nil
	}

	if lower == resetCommand {
		if err := f.sessions.Delete(ctx, userID); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return &Reply{Text: "Baseline reset. Type **baseline** to start again."}, nil
	}

	sess, ok, err := f.sessions.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !ok || sess.Phase == session.PhaseNone {
		return nil, nil
	}

	if cancelCommands[lower] {
		if err := f.sessions.Delete(ctx, userID); err != nil {
			span.RecordError(err)
			return nil, err
		}
		f.logger.Logger(ctx).Info("[Baseline] Flow cancelled", zap.String("user_id", userID))
		return &Reply{Text: "Baseline cancelled. Type **baseline** anytime to restart."}, nil
	}

	span.SetAttributes(attribute.String("session.phase", sess.Phase.String()))

	switch sess.Phase {
	case session.PhaseConcern:
		return f.handleConcern(ctx, sess, t)
	case session.PhaseIntro:
		return f.handleIntro(ctx, sess, lower)
	case session.PhaseRating:
		return f.handleRating(ctx, sess, t)
	case session.PhaseSummary:
		return f.handleSummary(ctx, sess, t, lower)
	case session.PhasePareto:
		return f.handlePareto(ctx, sess, t)
	case session.PhaseAdvice:
		return f.handleAdvice(ctx, sess, t)
	case session.PhaseGoal:
		return f.handleGoal(ctx, sess, t)
	case session.PhaseCheckin:
		return f.handleCheckin(ctx, sess, lower)
	case session.PhaseConfirm:
		// Terminal and re-entrant: only a fresh start command (handled above)
		// does anything here.
		return nil, nil
	}

	return nil, nil
}

func (f *Flow) handleConcern(ctx context.Context, sess session.Session, t string) (*Reply, error) {
	sess.Concern = t
	sess.Phase = session.PhaseIntro
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &Reply{Text: introPrompt()}, nil
}

func (f *Flow) handleIntro(ctx context.Context, sess session.Session, lower string) (*Reply, error) {
	if !affirmatives[lower] {
		return &Reply{Text: introPrompt()}, nil
	}
	sess.Phase = session.PhaseRating
	sess.PillarIndex = 0
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &Reply{Text: ratingPrompt(sess.PillarIndex)}, nil
}

func (f *Flow) handleRating(ctx context.Context, sess session.Session, t string) (*Reply, error) {
	if !isDigits(t) {
		return &Reply{Text: "Please reply with a number from **1** to **10**."}, nil
	}

	score := 10
	if n, err := strconv.Atoi(t); err == nil {
		score = clamp(n, 1, 10)
	}

	catalog := pillars.Catalog()
	if sess.Ratings == nil {
		sess.Ratings = map[string]int{}
	}
	sess.Ratings[catalog[sess.PillarIndex].Key] = score
	sess.PillarIndex++

	if sess.PillarIndex < pillars.Count {
		if err := f.sessions.Put(ctx, sess); err != nil {
			return nil, err
		}
		return &Reply{Text: ratingPrompt(sess.PillarIndex)}, nil
	}

	sess.Phase = session.PhaseSummary
	sess.Lowest = lowestTwo(sess.Ratings)
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &Reply{Text: summaryPrompt(sess)}, nil
}

func (f *Flow) handleSummary(ctx context.Context, sess session.Session, t, lower string) (*Reply, error) {
	if lower == "both" {
		sess.Phase = session.PhasePareto
		if err := f.sessions.Put(ctx, sess); err != nil {
			return nil, err
		}
		return &Reply{Text: paretoPrompt(sess.Lowest)}, nil
	}

	key, ok := pillars.Resolve(t)
	if !ok {
		return &Reply{Text: "Please type the pillar you want to **focus** on, or type **both**."}, nil
	}
	return f.commitFocus(ctx, sess, key)
}

func (f *Flow) handlePareto(ctx context.Context, sess session.Session, t string) (*Reply, error) {
	key, ok := pillars.Resolve(t)
	if !ok || !contains(sess.Lowest, key) {
		return &Reply{Text: "Please choose one of the two highlighted pillars by name."}, nil
	}
	return f.commitFocus(ctx, sess, key)
}

func (f *Flow) commitFocus(ctx context.Context, sess session.Session, key string) (*Reply, error) {
	sess.FocusPillar = key
	sess.Phase = session.PhaseAdvice
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	f.logger.Logger(ctx).Info("[Baseline] Focus pillar chosen",
		zap.String("user_id", sess.UserID), zap.String("pillar", key))
	return &Reply{Text: advicePrompt(key)}, nil
}

func (f *Flow) handleAdvice(ctx context.Context, sess session.Session, t string) (*Reply, error) {
	if isDigits(t) {
		pillar, _ := pillars.ByKey(sess.FocusPillar)
		idx, err := strconv.Atoi(t)
		if err != nil || idx < 1 || idx > len(pillar.Suggestions) {
			return &Reply{Text: "Pick a number from the list or type your own one-sentence goal."}, nil
		}
		suggestion := pillar.Suggestions[idx-1]
		sess.DraftGoal = "I will " + lowerFirst(suggestion) + " for the next 2 weeks."
		sess.Phase = session.PhaseCheckin
		if err := f.sessions.Put(ctx, sess); err != nil {
			return nil, err
		}
		return &Reply{Text: checkinPrompt()}, nil
	}

	if ValidGoal(t) {
		sess.DraftGoal = t
		sess.Phase = session.PhaseCheckin
		if err := f.sessions.Put(ctx, sess); err != nil {
			return nil, err
		}
		return &Reply{Text: checkinPrompt()}, nil
	}

	// A failed free-text goal drops the user into the goal scaffold rather
	// than re-showing the suggestion list.
	sess.Phase = session.PhaseGoal
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &Reply{Text: goalScaffoldPrompt(sess.FocusPillar)}, nil
}

func (f *Flow) handleGoal(ctx context.Context, sess session.Session, t string) (*Reply, error) {
	if !ValidGoal(t) {
		return &Reply{Text: goalCorrectionPrompt()}, nil
	}
	sess.DraftGoal = t
	sess.Phase = session.PhaseCheckin
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &Reply{Text: checkinPrompt()}, nil
}

func (f *Flow) handleCheckin(ctx context.Context, sess session.Session, lower string) (*Reply, error) {
	cadence := strings.TrimSuffix(lower, ".")
	if !cadences[cadence] {
		return &Reply{Text: "Please choose **daily**, **3x/week**, or **weekly**."}, nil
	}

	startDate := startOfDay(f.now()).AddDate(0, 0, 1)
	err := f.tracker.SetGoal(ctx, tracker.Goal{
		UserID:    sess.UserID,
		Text:      sess.DraftGoal,
		PillarKey: sess.FocusPillar,
		Cadence:   cadence,
		Started:   startDate,
	})
	if err != nil {
		// The plan is not confirmed until it is saved; stay in CHECKIN so the
		// user can retry.
		f.logger.Logger(ctx).Error("[Baseline] Could not save goal",
			zap.Error(err), zap.String("user_id", sess.UserID))
		return &Reply{Text: "I couldn't save your plan just now — please try again in a moment."}, nil
	}

	sess.CheckinCadence = cadence
	sess.Phase = session.PhaseConfirm
	if err := f.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	f.logger.Logger(ctx).Info("[Baseline] Plan confirmed",
		zap.String("user_id", sess.UserID),
		zap.String("pillar", sess.FocusPillar),
		zap.String("cadence", cadence))
	return &Reply{Text: confirmPrompt(sess, startDate)}, nil
}

// lowestTwo returns the two pillar keys with the smallest ratings. The sort
// is stable over catalog order, so ties resolve to the earlier pillar.
func lowestTwo(ratings map[string]int) []string {
	keys := make([]string, 0, len(ratings))
	for _, p := range pillars.Catalog() {
		if _, ok := ratings[p.Key]; ok {
			keys = append(keys, p.Key)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return ratings[keys[i]] < ratings[keys[j]]
	})
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return keys
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
