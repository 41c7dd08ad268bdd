package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    Registry
	connections ConnectionCounter
}

// NewGameService creates a service over the session registry. connections
// may be nil, in which case Stats reports zero connections.
func NewGameService(sessions Registry, connections ConnectionCounter) GameService {
	return &gameServiceImpl{
		sessions:    sessions,
		connections: connections,
	}
}

// ListSessions returns every live session in creation order.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	live := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(live))
	for _, sess := range live {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		infos = append(infos, NewSessionInfo(sess.Snapshot()))
	}
	return infos, nil
}

// GetSession returns a live session by ID.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return NewSessionInfo(sess.Snapshot()), nil
}

// EndSession finishes a live session and disconnects its players.
func (s *gameServiceImpl) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(sessionID); err != nil {
		return fmt.Errorf("end session %s: %w", sessionID, err)
	}
	slog.Info("session ended by operator", "session", sessionID)
	return nil
}

// Stats counts live sessions by state along with open connections.
func (s *gameServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	for _, sess := range s.sessions.List() {
		st.Sessions++
		switch sess.State() {
		case session.AwaitingSecondPlayer:
			st.Waiting++
		case session.Running:
			st.Running++
		}
	}
	if s.connections != nil {
		st.Connections = s.connections.Count()
	}
	return st, nil
}

// Field returns the playing-field constants.
func (s *gameServiceImpl) Field(ctx context.Context) physics.Field {
	return physics.DefaultField()
}
