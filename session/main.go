package session

import (
	"context"
	"sync"
	"time"
)

// Phase enumerates the positions of the baseline state machine. The zero
// value PhaseNone means "not in a baseline flow"; the machine only ever
// assigns the named constants, so illegal phases are unrepresentable.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseConcern
	PhaseIntro
	PhaseRating
	PhaseSummary
	PhasePareto
	PhaseAdvice
	PhaseGoal
	PhaseCheckin
	PhaseConfirm
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseConcern:
		return "concern"
	case PhaseIntro:
		return "intro"
	case PhaseRating:
		return "rating"
	case PhaseSummary:
		return "summary"
	case PhasePareto:
		return "pareto"
	case PhaseAdvice:
		return "advice"
	case PhaseGoal:
		return "goal"
	case PhaseCheckin:
		return "checkin"
	case PhaseConfirm:
		return "confirm"
	}
	return "unknown"
}

// Session is the per-user conversational state of the baseline flow. It is
// owned and mutated exclusively by the baseline state machine; stores only
// move whole values around.
type Session struct {
	UserID         string         `json:"user_id"`
	Phase          Phase          `json:"phase"`
	PillarIndex    int            `json:"pillar_index"`
	Ratings        map[string]int `json:"ratings,omitempty"`
	Lowest         []string       `json:"lowest,omitempty"`
	FocusPillar    string         `json:"focus_pillar,omitempty"`
	DraftGoal      string         `json:"draft_goal,omitempty"`
	CheckinCadence string         `json:"checkin_cadence,omitempty"`
	Concern        string         `json:"concern,omitempty"`
	StartedAt      time.Time      `json:"started_at,omitempty"`
}

// New returns a blank session for the user, not yet in any flow.
func New(userID string) Session {
	return Session{UserID: userID, Ratings: map[string]int{}}
}

// Store is the injected keyed storage for sessions. Implementations must
// treat sessions as opaque values; Get reports ok=false when the user has
// no stored session.
type Store interface {
	Get(ctx context.Context, userID string) (Session, bool, error)
	Put(ctx context.Context, sess Session) error
	Delete(ctx context.Context, userID string) error
}

// MemoryStore keeps sessions in a process-wide map. It is the default
// backend; sessions persist until process restart or explicit reset.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]Session{}}
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok, nil
}

func (m *MemoryStore) Put(ctx context.Context, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.UserID] = sess
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
