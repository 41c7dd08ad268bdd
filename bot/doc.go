// Package bot is an automated pong player.
//
// A Bot dials the server's WebSocket endpoint, enters matchmaking like any
// browser client, and keeps its paddle centred on the ball. It is used for
// smoke testing a deployment and for filling the second seat while
// developing a client:
//
//	b := bot.New("http://localhost:8080", protocol.JSONCodec{})
//	result, err := b.Play(ctx)
//
// Play returns when the match ends, which is when the opponent leaves, the
// server ends the session, or ctx is cancelled.
package bot
