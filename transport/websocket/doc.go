// Package websocket provides the WebSocket transport for the pong server.
//
// The websocket package implements:
//   - Upgrading HTTP requests at /ws and handing each connection to the matchmaker
//   - A Client per connection implementing player.Conn
//   - Bounded, non-blocking outbound queues drained by a write pump
//   - Ping/pong keepalive and read limits
//   - Tracking of live connections for stats and shutdown
//
// Architecture:
//
// A central Hub keeps the set of live clients. Each client has a write pump
// goroutine that owns all data frames written to the socket; the player's
// read loop is the only reader. Closing a client stops its write pump, which
// flushes what is queued, sends a close frame and closes the socket, which in
// turn ends the read loop.
//
// Message Protocol:
//
// Frames carry one protocol message each. JSON (text frames) is the default;
// clients may ask for MessagePack (binary frames) with ?codec=msgpack.
//
// Usage:
//
//	hub := websocket.NewHub(mm, settings)
//	go hub.Run()
//	defer hub.Close()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects, the request is upgraded
// 2. Client registered with the hub, write pump started
// 3. Player joins the matchmaker and receives its PlayerNumber
// 4. Player read loop runs until the socket closes or a frame is malformed
// 5. Disconnect ends the match; both clients are closed and unregistered
package websocket
