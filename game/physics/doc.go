// Package physics provides the geometry and ball mechanics of the pong field.
//
// The physics package implements:
//   - Vector arithmetic (add, scale, axis mirroring)
//   - The fixed field geometry shared with clients
//   - Seats and their paddle reach bands
//   - Ball advance, wall bounce, paddle collision and score detection
//
// Everything here is a pure value operation. Callers own synchronization:
// a Ball is mutated only by the session that holds it, under its guard.
//
// Coordinates:
//
// The origin is the top-left corner of the field. X grows to the right
// (Left seat near x=0, Right seat near x=FieldWidth) and Y grows downwards.
//
// Usage:
//
//	ball := physics.NewBall(rng)
//	ball.Advance(dt)
//	ball.BounceWalls()
//	ball.CollidePaddle(physics.Left, leftPaddleY)
//	if scorer, ok := ball.Scorer(); ok {
//		score[scorer]++
//		ball.Reset(rng)
//	}
package physics
