package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/player"
	"github.com/wricardo/mcp-training/pong/game/protocol"
	"golang.org/x/exp/rand"
)

// DefaultTickInterval is the nominal period of the simulation loop.
const DefaultTickInterval = 50 * time.Millisecond

var (
	ErrInvalidState      = errors.New("invalid session state")
	ErrSubscriberExists  = errors.New("session already has an ended subscriber")
	ErrPlayerNotAttached = errors.New("player could not be seated")
)

// Session is one match between two seats.
type Session struct {
	id        string
	createdAt time.Time
	tick      time.Duration
	rng       physics.Rand

	mu        sync.Mutex
	state     State
	seats     [2]*player.Player
	ball      physics.Ball
	score     [2]int
	ticks     uint64
	startedAt time.Time
	endedAt   time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	ended     chan struct{}
	onEnded   func(*Session)
}

// Option configures a Session.
type Option func(*Session)

// WithTickInterval sets the nominal simulation period.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithRand replaces the pseudo-random source used for ball resets.
func WithRand(r physics.Rand) Option {
	return func(s *Session) {
		if r != nil {
			s.rng = r
		}
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		tick:      DefaultTickInterval,
		state:     Empty,
		ended:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	s.ball = physics.NewBall(s.rng)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Score returns a copy of the score, indexed by seat.
func (s *Session) Score() [2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// OnEnded registers the single subscriber of the ended notification.
func (s *Session) OnEnded(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onEnded != nil {
		return ErrSubscriberExists
	}
	s.onEnded = fn
	return nil
}

// Join seats p in the first free seat and sends it its PlayerNumber. The
// second join starts the simulation loop. Joining a full or finished session
// fails with ErrInvalidState.
func (s *Session) Join(p *player.Player) (physics.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Empty && s.state != AwaitingSecondPlayer {
		return 0, fmt.Errorf("%w: join on %s session %s", ErrInvalidState, s.state, s.id)
	}

	seat := physics.Left
	if s.seats[physics.Left] != nil {
		seat = physics.Right
	}

	if err := p.Attach(s, seat); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPlayerNotAttached, err)
	}
	s.seats[seat] = p
	p.Send(protocol.NewPlayerNumber(int(seat)))

	if seat == physics.Left {
		s.state = AwaitingSecondPlayer
		slog.Info("player waiting", "session", s.id, "player", p.ID())
		return seat, nil
	}

	s.state = Running
	s.start()
	slog.Info("session running", "session", s.id,
		"left", s.seats[physics.Left].ID(), "right", p.ID())
	return seat, nil
}

// start launches the simulation loop. Callers hold s.mu.
func (s *Session) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.startedAt = time.Now()
	go s.run(ctx, s.done)
}

// run advances the simulation every tick using measured wall-clock deltas.
func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if !s.advance(dt) {
				return
			}
		}
	}
}

// advance runs one step if the session is still running.
func (s *Session) advance(dt float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return false
	}
	s.step(dt)
	return true
}

// PlayerMoved forwards a seat's paddle position to the other seat.
func (s *Session) PlayerMoved(p *player.Player, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Finished {
		return
	}
	seat, ok := s.seatOf(p)
	if !ok {
		return
	}
	if other := s.seats[seat.Other()]; other != nil {
		other.Send(protocol.NewPlayerPosition(y))
	}
}

// PlayerDisconnected ends the session and closes the remaining seat.
func (s *Session) PlayerDisconnected(p *player.Player) {
	s.finish(p)
}

// End finishes the session from outside, closing every seat. It returns once
// the ended subscriber has run, even when another goroutine started the
// finish. Must not be called from the ended subscriber.
func (s *Session) End() {
	s.finish(nil)
	<-s.ended
}

// Done returns a channel closed once the simulation loop has exited, or nil
// if the loop never started.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// finish moves the session to Finished. Only the first call has any effect.
func (s *Session) finish(leaver *player.Player) {
	s.mu.Lock()
	if s.state == Finished {
		s.mu.Unlock()
		return
	}
	if leaver != nil {
		if _, ok := s.seatOf(leaver); !ok {
			s.mu.Unlock()
			return
		}
	}

	from := s.state
	s.state = Finished
	s.endedAt = time.Now()
	if s.cancel != nil {
		s.cancel()
	}

	var remaining []*player.Player
	for _, p := range s.seats {
		if p != nil && p != leaver {
			remaining = append(remaining, p)
		}
	}
	done, onEnded := s.done, s.onEnded
	score := s.score
	s.mu.Unlock()

	for _, p := range remaining {
		p.Close()
	}
	if done != nil {
		<-done
	}

	slog.Info("session finished", "session", s.id, "from", from.String(),
		"score_left", score[physics.Left], "score_right", score[physics.Right])

	if onEnded != nil {
		onEnded(s)
	}
	close(s.ended)
}

// seatOf resolves p to its seat in this session. Callers hold s.mu.
func (s *Session) seatOf(p *player.Player) (physics.Seat, bool) {
	for _, seat := range physics.Seats {
		if s.seats[seat] == p {
			return seat, true
		}
	}
	return 0, false
}

// broadcast sends msg to every occupied seat. Callers hold s.mu.
func (s *Session) broadcast(msg protocol.Message) {
	for _, p := range s.seats {
		if p != nil {
			p.Send(msg)
		}
	}
}
