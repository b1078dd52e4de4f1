package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartiedev/baseline"
	"smartiedev/logger"
	"smartiedev/session"
	"smartiedev/tracker"
)

func newTestRouter(t *testing.T) (*Router, *tracker.MemoryStore) {
	t.Helper()
	log := logger.Connect(logger.LoggerConnectProps{Production: false})
	goals := tracker.NewMemoryStore()
	flow := baseline.Connect(baseline.FlowConnectProps{
		Logger:   log,
		Sessions: session.NewMemoryStore(),
		Tracker:  goals,
	})
	r := Connect(RouterConnectProps{
		Logger:   log,
		Baseline: flow,
		Tracker:  goals,
	})
	return r, goals
}

func TestSafetyOutranksEverything(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	// Even mid-baseline, a red-flag message gets the crisis script.
	_, err := r.Handle(ctx, "u1", "baseline")
	require.NoError(t, err)

	out, err := r.Handle(ctx, "u1", "honestly I want to die")
	require.NoError(t, err)
	assert.Contains(t, out, "Samaritans")
}

func TestDoneWithoutGoal(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "run **baseline** to set one")
}

func TestDoneWithGoal(t *testing.T) {
	r, goals := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, goals.SetGoal(ctx, tracker.Goal{
		UserID: "u1", Text: "I will walk daily.", PillarKey: "movement", Cadence: "daily",
	}))

	out, err := r.Handle(ctx, "u1", "Done")
	require.NoError(t, err)
	assert.Contains(t, out, "logged for today")
	assert.Contains(t, out, "I will walk daily.")

	logs, err := goals.LastN(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProgressWithoutGoal(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No active goal yet")
}

func TestHistoryWithoutLogs(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No check-ins yet")
}

func TestShowGoal(t *testing.T) {
	r, goals := newTestRouter(t)
	ctx := context.Background()

	out, err := r.Handle(ctx, "u1", "goal")
	require.NoError(t, err)
	assert.Contains(t, out, "don't have an active goal")

	require.NoError(t, goals.SetGoal(ctx, tracker.Goal{
		UserID: "u1", Text: "I will stretch every evening.", PillarKey: "movement", Cadence: "3x/week",
	}))
	out, err = r.Handle(ctx, "u1", "goal")
	require.NoError(t, err)
	assert.Contains(t, out, "I will stretch every evening.")
	assert.Contains(t, out, "3x/week")
}

func TestBaselineCommandRoutesToFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "baseline")
	require.NoError(t, err)
	assert.Contains(t, out, "bringing you here today")
}

func TestKeywordIntentGetsScriptedCoaching(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "any tips for stress?")
	require.NoError(t, err)
	assert.Contains(t, out, "(Pillar: Stress Management)")
}

func TestUnmatchedMessageGetsFallback(t *testing.T) {
	r, _ := newTestRouter(t)
	out, err := r.Handle(context.Background(), "u1", "qwerty zzz")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, out)
}
