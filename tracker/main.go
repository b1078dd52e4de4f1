package tracker

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"smartiedev/pillars"
)

// Goal is the single active behavioural goal for a user. Setting a new goal
// replaces any previous one (upsert semantics).
type Goal struct {
	UserID    string
	Text      string
	PillarKey string
	Cadence   string // "daily" | "3x/week" | "weekly"
	Started   time.Time
}

// LogEntry records one completed check-in.
type LogEntry struct {
	UserID string
	Date   time.Time
	Note   string
}

// Store is the keyed goal/log storage the baseline flow writes into at
// completion and the router reads for progress reporting.
type Store interface {
	SetGoal(ctx context.Context, goal Goal) error
	GetGoal(ctx context.Context, userID string) (*Goal, error)
	LogDone(ctx context.Context, entry LogEntry) error
	Logs(ctx context.Context, userID string, days int) ([]LogEntry, error)
	LastN(ctx context.Context, userID string, n int) ([]LogEntry, error)
}

// MemoryStore is the in-process Store used in development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	goals map[string]Goal
	logs  map[string][]LogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{goals: map[string]Goal{}, logs: map[string][]LogEntry{}}
}

func (m *MemoryStore) SetGoal(ctx context.Context, goal Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goal.UserID] = goal
	return nil
}

func (m *MemoryStore) GetGoal(ctx context.Context, userID string) (*Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.goals[userID]
	if !ok {
		return nil, nil
	}
	return &goal, nil
}

func (m *MemoryStore) LogDone(ctx context.Context, entry LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	m.logs[entry.UserID] = append(m.logs[entry.UserID], entry)
	return nil
}

func (m *MemoryStore) Logs(ctx context.Context, userID string, days int) ([]LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := startOfDay(time.Now()).AddDate(0, 0, -(days - 1))
	var out []LogEntry
	for _, e := range m.logs[userID] {
		if !startOfDay(e.Date).Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) LastN(ctx context.Context, userID string, n int) ([]LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := append([]LogEntry(nil), m.logs[userID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// ExpectedCount is how many check-ins the cadence implies over a window.
func ExpectedCount(cadence string, days int) int {
	switch cadence {
	case "daily":
		return days
	case "3x/week":
		return int(math.Round(float64(days) * 3 / 7))
	case "weekly":
		expected := int(math.Round(float64(days) / 7))
		if expected < 1 {
			expected = 1
		}
		return expected
	}
	return 0
}

// Summary renders a progress snapshot for the user: goal, adherence over the
// window, and current consecutive-day streak.
func Summary(ctx context.Context, store Store, userID string, days int) (string, error) {
	goal, err := store.GetGoal(ctx, userID)
	if err != nil {
		return "", err
	}
	if goal == nil {
		return "No active goal yet. Type **baseline** to set one.", nil
	}

	logs, err := store.Logs(ctx, userID, days)
	if err != nil {
		return "", err
	}
	done := len(logs)
	expected := ExpectedCount(goal.Cadence, days)
	adherence := 0
	if expected > 0 {
		adherence = int(math.Round(100 * float64(done) / float64(expected)))
	}

	// Streak counts consecutive logged days, today backwards.
	all, err := store.LastN(ctx, userID, 1000)
	if err != nil {
		return "", err
	}
	have := map[string]bool{}
	for _, e := range all {
		have[e.Date.Format("2006-01-02")] = true
	}
	streak := 0
	day := time.Now()
	for have[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf(
		"Goal: “%s” (cadence: %s)\nLast %d days: %d/%d check-ins → ~%d%% adherence\nCurrent streak: %d day(s)\nPillar: %s",
		goal.Text, goal.Cadence, days, done, expected, adherence, streak, pillars.LabelByKey(goal.PillarKey),
	), nil
}
