package session

import (
	"time"

	"github.com/wricardo/mcp-training/pong/game/physics"
)

// Snapshot is a consistent copy of a session's observable state.
type Snapshot struct {
	ID        string
	State     State
	Players   [2]string // player IDs by seat, empty when unoccupied
	Ball      physics.Ball
	Score     [2]int
	Ticks     uint64
	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time
}

// Snapshot copies the session state under its guard.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		Ball:      s.ball,
		Score:     s.score,
		Ticks:     s.ticks,
		CreatedAt: s.createdAt,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
	for seat, p := range s.seats {
		if p != nil {
			snap.Players[seat] = p.ID()
		}
	}
	return snap
}
