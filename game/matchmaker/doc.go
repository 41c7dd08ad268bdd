// Package matchmaker pairs connecting players into sessions.
//
// The Matchmaker is the process-wide registry of live sessions. Join hands a
// player to the session that is waiting for a second player, or opens a new
// session when none is waiting, so at most one session is ever waiting.
// Sessions remove themselves from the registry when they finish.
//
// Concurrency:
//
// One mutex guards the registry. It is held for the whole of Join, which
// takes the chosen session's own guard while seating the player; sessions
// raise their ended notification only after releasing their guard, so the
// lock order is always registry then session. The registry lock is never held
// across network I/O: seat sends are queued, not written.
//
// Lifecycle:
//
//	mm := matchmaker.New(matchmaker.WithSessionOptions(
//		session.WithTickInterval(50 * time.Millisecond),
//	))
//	defer mm.Shutdown()
//
//	sess, err := mm.Join(p)
package matchmaker
