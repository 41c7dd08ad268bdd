// Package player bridges one client connection to typed protocol messages.
//
// A Player wraps a Conn (the transport's per-client byte stream) and a
// protocol.Codec. It remembers the client's last reported paddle position and
// raises two notifications on its Listener, the session it was seated in:
//
//   - PlayerMoved, once per decoded inbound position, in arrival order
//   - PlayerDisconnected, exactly once, when the stream closes or a message
//     cannot be decoded
//
// Sends are best effort. A send to a closed or failing connection is dropped
// silently; the disconnect notification ends the session independently.
package player
