package session

import (
	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/protocol"
)

// step advances the ball by dt seconds, resolves every active collision,
// handles scoring and broadcasts the ball position. Callers hold s.mu.
func (s *Session) step(dt float64) {
	s.ticks++
	b := &s.ball

	b.Advance(dt)
	b.BounceWalls()

	// Wall and paddle checks are independent; a corner hit reflects both axes.
	for _, seat := range physics.Seats {
		if p := s.seats[seat]; p != nil {
			b.CollidePaddle(seat, p.PaddleY())
		}
	}

	if scorer, ok := b.Scorer(); ok {
		s.score[scorer]++
		s.broadcast(protocol.NewScore(s.score))
		b.Reset(s.rng)
	}

	s.broadcast(protocol.NewBallPosition(b.Position.X, b.Position.Y))
}
