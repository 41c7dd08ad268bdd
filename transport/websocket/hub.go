package websocket

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/pong/game/config"
	"github.com/wricardo/mcp-training/pong/game/player"
	"github.com/wricardo/mcp-training/pong/game/protocol"
	"github.com/wricardo/mcp-training/pong/game/session"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Matchmaker seats players into sessions.
type Matchmaker interface {
	Join(p *player.Player) (*session.Session, error)
}

// Client is one WebSocket connection. It implements player.Conn.
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	frameType int
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Hub maintains the set of live clients.
type Hub struct {
	matchmaker Matchmaker
	settings   *config.Settings
	upgrader   websocket.Upgrader

	// Registered clients; owned by Run.
	clients map[*Client]bool
	count   atomic.Int64

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	quitOnce   sync.Once
	stopped    chan struct{}
}

// NewHub creates a hub that joins upgraded connections to mm. A nil settings
// selects config.Default().
func NewHub(mm Matchmaker, settings *config.Settings) *Hub {
	if settings == nil {
		settings = config.Default()
	}
	h := &Hub{
		matchmaker: mm,
		settings:   settings,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || settings.OriginAllowed(origin)
		},
	}
	return h
}

// Run starts the hub's event loop. It returns after Close.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			slog.Debug("client registered", "client", client.id, "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.count.Store(int64(len(h.clients)))
				slog.Debug("client unregistered", "client", client.id, "clients", len(h.clients))
			}

		case <-h.quit:
			for client := range h.clients {
				client.shutdown()
			}
			h.clients = make(map[*Client]bool)
			h.count.Store(0)
			return
		}
	}
}

// Close stops the event loop and closes every live client.
func (h *Hub) Close() {
	h.quitOnce.Do(func() { close(h.quit) })
	<-h.stopped
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and seats the new player via the matchmaker.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.CodecFor(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	frameType := websocket.TextMessage
	if codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	client := &Client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		frameType: frameType,
		send:      make(chan []byte, h.settings.SendBuffer),
		done:      make(chan struct{}),
	}

	pongWait := time.Duration(h.settings.PongWait)
	conn.SetReadLimit(h.settings.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return
	}

	go client.writePump()

	p := player.New(client, codec)
	sess, err := h.matchmaker.Join(p)
	if err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			slog.Error("matchmaker handed player to an unavailable session", "player", p.ID(), "error", err)
		} else {
			slog.Warn("player rejected", "player", p.ID(), "error", err)
		}
		p.Close()
		return
	}

	seat, _ := p.Seat()
	slog.Info("player connected", "player", p.ID(), "client", client.id,
		"session", sess.ID(), "seat", seat, "codec", codec.Name(), "remote", r.RemoteAddr)

	go p.Run()
}

// Send queues data for the write pump without blocking. A full queue closes
// the connection; the resulting read error ends the player's session.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		slog.Warn("send buffer full, closing client", "client", c.id)
		c.shutdown()
		return ErrSendBufferFull
	}
}

// Receive blocks for the next data frame.
func (c *Client) Receive() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
			slog.Debug("websocket read error", "client", c.id, "error", err)
		}
		return nil, err
	}
	return data, nil
}

// Close stops the write pump and unregisters the client. It is idempotent.
func (c *Client) Close() error {
	c.shutdown()
	select {
	case c.hub.unregister <- c:
	case <-c.hub.quit:
	}
	return nil
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writePump writes queued frames and pings until the client is closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.settings.PingPeriod())
	writeWait := time.Duration(c.hub.settings.WriteWait)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.frameType, message); err != nil {
				c.shutdown()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}

		case <-c.done:
			c.flush(writeWait)
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
			return
		}
	}
}

// flush writes whatever is still queued.
func (c *Client) flush(writeWait time.Duration) {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.frameType, message); err != nil {
				return
			}
		default:
			return
		}
	}
}
