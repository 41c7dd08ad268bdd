package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/pong/game/protocol"
)

// Result summarizes one match from the bot's point of view.
type Result struct {
	Seat     int           `json:"seat"`
	Score    [2]int        `json:"score"`
	Messages int           `json:"messages"`
	Moves    int           `json:"moves"`
	Duration time.Duration `json:"duration"`
}

// Bot plays a single seat.
type Bot struct {
	serverURL string
	codec     protocol.Codec
	dialer    *websocket.Dialer
	// Deadband is the smallest ball movement, in pixels, that triggers a
	// paddle update.
	Deadband float64
}

// New creates a bot for the server at serverURL, which may use the http,
// https, ws or wss scheme.
func New(serverURL string, codec protocol.Codec) *Bot {
	if codec == nil {
		codec = protocol.JSONCodec{}
	}
	return &Bot{
		serverURL: serverURL,
		codec:     codec,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		Deadband: 1,
	}
}

// endpoint turns the server URL into the /ws URL for the bot's codec.
func (b *Bot) endpoint() (string, error) {
	u, err := url.Parse(b.serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"codec": {b.codec.Name()}}.Encode()
	return u.String(), nil
}

func (b *Bot) frameType() int {
	if b.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Play joins a match and plays until it ends.
func (b *Bot) Play(ctx context.Context) (*Result, error) {
	endpoint, err := b.endpoint()
	if err != nil {
		return nil, err
	}

	conn, _, err := b.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	slog.Info("bot connected", "url", endpoint)

	started := time.Now()
	result := &Result{Seat: -1}
	lastY := math.Inf(1)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			result.Duration = time.Since(started)
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("match over", "seat", result.Seat, "score", result.Score, "moves", result.Moves)
				return result, nil
			}
			return result, fmt.Errorf("read: %w", err)
		}
		result.Messages++

		env, err := b.codec.Decode(data)
		if err != nil {
			slog.Debug("skipping message", "error", err)
			continue
		}

		switch env.Type {
		case protocol.KindPlayerNumber:
			result.Seat = env.PlayerNumber
			slog.Info("seated", "seat", env.PlayerNumber)
		case protocol.KindScore:
			result.Score = env.Score
			slog.Debug("score", "left", env.Score[0], "right", env.Score[1])
		case protocol.KindBallPosition:
			y := float64(env.YPos)
			if math.Abs(y-lastY) < b.Deadband {
				continue
			}
			if err := b.move(conn, y); err != nil {
				result.Duration = time.Since(started)
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				return result, err
			}
			lastY = y
			result.Moves++
		}
	}
}

func (b *Bot) move(conn *websocket.Conn, y float64) error {
	data, err := b.codec.Encode(protocol.NewPaddleUpdate(y))
	if err != nil {
		return fmt.Errorf("encode move: %w", err)
	}
	if err := conn.WriteMessage(b.frameType(), data); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return fmt.Errorf("write move: %w", err)
	}
	return nil
}
