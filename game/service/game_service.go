package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/session"
)

// GameService defines the operator-facing session operations.
type GameService interface {
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	EndSession(ctx context.Context, sessionID string) error
	Stats(ctx context.Context) (*Stats, error)
	Field(ctx context.Context) physics.Field
}

// Registry is the part of the matchmaker the service reads from.
type Registry interface {
	Get(id string) (*session.Session, error)
	List() []*session.Session
	End(id string) error
}

// ConnectionCounter reports the number of open player connections.
type ConnectionCounter interface {
	Count() int
}

// SessionInfo describes one live session.
type SessionInfo struct {
	ID        string       `json:"id"`
	State     string       `json:"state"`
	Players   []string     `json:"players"`
	Score     [2]int       `json:"score"`
	Ball      physics.Ball `json:"ball"`
	Ticks     uint64       `json:"ticks"`
	CreatedAt time.Time    `json:"created_at"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
}

// Stats summarizes server activity.
type Stats struct {
	Sessions    int `json:"sessions"`
	Waiting     int `json:"waiting"`
	Running     int `json:"running"`
	Connections int `json:"connections"`
}

// NewSessionInfo converts a session snapshot into its API form.
func NewSessionInfo(snap session.Snapshot) *SessionInfo {
	info := &SessionInfo{
		ID:        snap.ID,
		State:     snap.State.String(),
		Players:   make([]string, 0, 2),
		Score:     snap.Score,
		Ball:      snap.Ball,
		Ticks:     snap.Ticks,
		CreatedAt: snap.CreatedAt,
	}
	for _, id := range snap.Players {
		if id != "" {
			info.Players = append(info.Players, id)
		}
	}
	if !snap.StartedAt.IsZero() {
		started := snap.StartedAt
		info.StartedAt = &started
	}
	return info
}
