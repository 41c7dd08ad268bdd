// Package session runs one two-player pong match.
//
// The session package implements:
//   - The match state machine (Empty, AwaitingSecondPlayer, Running, Finished)
//   - Write-once seat assignment for the two players
//   - The fixed-interval simulation loop and the per-tick physics step
//   - Broadcasting ball, score and paddle updates to the seats
//   - Teardown on disconnect or explicit End
//
// Core Types:
//
// Session owns both player handles, the ball, the score and the state. It
// implements player.Listener so that each seat's read loop reports moves and
// disconnects directly to it.
//
// Concurrency:
//
// A single mutex guards seats, ball, score and state. Joins, ticks, move
// forwarding and teardown all take it. The simulation goroutine checks the
// state at the top of each tick and exits once the session is no longer
// running. Teardown releases the guard before closing seats, waiting for the
// loop and raising the ended notification, so the subscriber may take its own
// locks.
//
// Usage:
//
//	s := session.New(session.WithTickInterval(50 * time.Millisecond))
//	s.OnEnded(func(s *session.Session) { registry.Remove(s) })
//
//	seat, err := s.Join(p1) // Left, state AwaitingSecondPlayer
//	seat, err = s.Join(p2)  // Right, state Running, loop started
package session
