package matchmaker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wricardo/mcp-training/pong/game/player"
	"github.com/wricardo/mcp-training/pong/game/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrClosed          = errors.New("matchmaker is shut down")
)

// Matchmaker is the registry of live sessions.
type Matchmaker struct {
	mu          sync.Mutex
	sessions    []*session.Session // creation order
	sessionOpts []session.Option
	closed      bool
}

// Option configures a Matchmaker.
type Option func(*Matchmaker)

// WithSessionOptions sets the options every new session is created with.
func WithSessionOptions(opts ...session.Option) Option {
	return func(m *Matchmaker) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// New creates an empty matchmaker.
func New(opts ...Option) *Matchmaker {
	m := &Matchmaker{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Join seats p in the oldest session awaiting a second player, or in a new
// session if none is waiting.
func (m *Matchmaker) Join(p *player.Player) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	for _, s := range m.sessions {
		if s.State() != session.AwaitingSecondPlayer {
			continue
		}
		_, err := s.Join(p)
		if err == nil {
			return s, nil
		}
		// The waiting player may have left since the state check.
		if errors.Is(err, session.ErrInvalidState) {
			continue
		}
		return nil, err
	}

	s := session.New(m.sessionOpts...)
	if err := s.OnEnded(m.onSessionEnded); err != nil {
		return nil, err
	}
	if _, err := s.Join(p); err != nil {
		// A fresh session can only refuse a player that is seated elsewhere.
		slog.Error("new session refused player", "session", s.ID(), "player", p.ID(), "error", err)
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}
	m.sessions = append(m.sessions, s)
	slog.Debug("session created", "session", s.ID(), "live", len(m.sessions))

	return s, nil
}

// onSessionEnded removes s from the registry. Removing an absent session is a
// no-op.
func (m *Matchmaker) onSessionEnded(s *session.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, live := range m.sessions {
		if live == s {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			slog.Debug("session removed", "session", s.ID(), "live", len(m.sessions))
			return
		}
	}
}

// Get returns a live session by ID.
func (m *Matchmaker) Get(id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// List returns the live sessions in creation order.
func (m *Matchmaker) List() []*session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*session.Session, len(m.sessions))
	copy(result, m.sessions)
	return result
}

// Count returns the number of live sessions.
func (m *Matchmaker) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stats counts live sessions by state.
type Stats struct {
	Sessions int
	Waiting  int
	Running  int
}

// Stats returns a summary of the registry.
func (m *Matchmaker) Stats() Stats {
	var st Stats
	for _, s := range m.List() {
		st.Sessions++
		switch s.State() {
		case session.AwaitingSecondPlayer:
			st.Waiting++
		case session.Running:
			st.Running++
		}
	}
	return st
}

// End finishes the live session with the given ID.
func (m *Matchmaker) End(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.End()
	return nil
}

// Shutdown rejects further joins and ends every live session. It returns once
// every session has left the registry.
func (m *Matchmaker) Shutdown() {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*session.Session, len(m.sessions))
	copy(sessions, m.sessions)
	m.mu.Unlock()

	for _, s := range sessions {
		s.End()
	}
	if len(sessions) > 0 {
		slog.Info("matchmaker shut down", "ended", len(sessions))
	}
}
