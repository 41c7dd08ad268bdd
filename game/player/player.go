package player

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/protocol"
)

var (
	ErrAlreadyAttached = errors.New("player already attached to a session")
	ErrInvalidSeat     = errors.New("invalid seat")
)

// Conn is the transport side of a player.
type Conn interface {
	// Send queues one frame for delivery. It must not block on the network.
	Send(data []byte) error
	// Receive blocks until the next inbound frame arrives or the stream ends.
	Receive() ([]byte, error)
	// Close requests an orderly shutdown. It must be safe to call repeatedly.
	Close() error
}

// Listener receives a player's notifications. A session implements it.
type Listener interface {
	PlayerMoved(p *Player, y float64)
	PlayerDisconnected(p *Player)
}

// Player is the server-side handle of one connected client.
type Player struct {
	id    string
	conn  Conn
	codec protocol.Codec

	paddleY atomic.Uint64 // math.Float64bits

	mu       sync.Mutex
	listener Listener
	seat     physics.Seat
	seated   bool

	closed         atomic.Bool
	closeOnce      sync.Once
	disconnectOnce sync.Once
}

// New creates a player for conn. A nil codec selects JSON.
func New(conn Conn, codec protocol.Codec) *Player {
	if codec == nil {
		codec = protocol.JSONCodec{}
	}
	p := &Player{
		id:    uuid.NewString(),
		conn:  conn,
		codec: codec,
	}
	p.paddleY.Store(math.Float64bits(physics.FieldHeight / 2))
	return p
}

// ID returns the player's unique identifier.
func (p *Player) ID() string {
	return p.id
}

// Seat returns the assigned seat, if any.
func (p *Player) Seat() (physics.Seat, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seat, p.seated
}

// PaddleY returns the last reported paddle centre.
func (p *Player) PaddleY() float64 {
	return math.Float64frombits(p.paddleY.Load())
}

// Attach seats the player and subscribes l to its notifications.
// It can succeed only once per player.
func (p *Player) Attach(l Listener, seat physics.Seat) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seated {
		return ErrAlreadyAttached
	}
	if !seat.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, int(seat))
	}
	p.listener = l
	p.seat = seat
	p.seated = true
	return nil
}

func (p *Player) currentListener() Listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listener
}

// ReportMove records a new paddle position and notifies the listener.
// The value is trusted as sent; clients clamp it.
func (p *Player) ReportMove(y float64) {
	p.paddleY.Store(math.Float64bits(y))
	if l := p.currentListener(); l != nil {
		l.PlayerMoved(p, y)
	}
}

// Send encodes msg and queues it on the connection. Failures are dropped.
func (p *Player) Send(msg protocol.Message) {
	if p.Closed() {
		return
	}
	data, err := p.codec.Encode(msg)
	if err != nil {
		slog.Error("failed to encode message", "player", p.id, "kind", msg.Kind(), "error", err)
		return
	}
	if err := p.conn.Send(data); err != nil {
		slog.Debug("dropped message", "player", p.id, "kind", msg.Kind(), "error", err)
	}
}

// Close shuts the connection down. Repeated calls are no-ops.
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if err := p.conn.Close(); err != nil {
			slog.Debug("close failed", "player", p.id, "error", err)
		}
	})
}

// Closed reports whether Close has been called.
func (p *Player) Closed() bool {
	return p.closed.Load()
}

// Run reads inbound messages until the stream ends or a message cannot be
// decoded, then closes the connection and raises PlayerDisconnected once.
// It blocks and is meant to run on its own goroutine.
func (p *Player) Run() {
	defer p.disconnect()

	for {
		data, err := p.conn.Receive()
		if err != nil {
			slog.Debug("player stream ended", "player", p.id, "error", err)
			return
		}

		y, err := p.codec.DecodePosition(data)
		if err != nil {
			slog.Info("protocol violation, dropping player", "player", p.id, "error", err)
			return
		}

		p.ReportMove(y)
	}
}

func (p *Player) disconnect() {
	p.Close()
	p.disconnectOnce.Do(func() {
		if l := p.currentListener(); l != nil {
			l.PlayerDisconnected(p)
		}
	})
}
