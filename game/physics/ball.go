package physics

// Ball is the simulated ball. Direction is always a unit vector.
type Ball struct {
	Position  Vector  `json:"position"`
	Direction Vector  `json:"direction"`
	Speed     float64 `json:"speed"`
}

// NewBall places a ball at the field centre heading in a random canonical
// direction at the starting speed.
func NewBall(r Rand) Ball {
	return Ball{
		Position:  Vector{X: FieldWidth / 2, Y: FieldHeight / 2},
		Direction: RandomDirection(r),
		Speed:     BallStartingSpeed,
	}
}

// Advance moves the ball along its direction for dt seconds.
func (b *Ball) Advance(dt float64) {
	b.Position = b.Position.Add(b.Direction.Scale(b.Speed * dt))
}

// BounceWalls reflects the ball off the top and bottom walls.
// It reports whether a bounce happened.
func (b *Ball) BounceWalls() bool {
	bounced := false
	if b.Position.Y < BallRadius {
		b.Position.Y = BallRadius
		b.Direction = b.Direction.MirrorY()
		bounced = true
	}
	if b.Position.Y > FieldHeight-BallRadius {
		b.Position.Y = FieldHeight - BallRadius
		b.Direction = b.Direction.MirrorY()
		bounced = true
	}
	return bounced
}

// reachBoundary is the x coordinate the ball centre is clamped to when it
// hits the paddle of the given seat.
func reachBoundary(seat Seat) float64 {
	if seat == Left {
		return BallRadius + PaddleReach
	}
	return FieldWidth - (BallRadius + PaddleReach)
}

// inReach reports whether the ball is inside the seat's paddle band on x and
// within half a paddle of paddleY on y.
func (b *Ball) inReach(seat Seat, paddleY float64) bool {
	boundary := reachBoundary(seat)
	if seat == Left && b.Position.X >= boundary {
		return false
	}
	if seat == Right && b.Position.X <= boundary {
		return false
	}
	half := float64(PaddleHeight / 2)
	return b.Position.Y <= paddleY+half && b.Position.Y >= paddleY-half
}

// CollidePaddle reflects the ball off the seat's paddle centred at paddleY
// and speeds it up. It reports whether a collision happened.
func (b *Ball) CollidePaddle(seat Seat, paddleY float64) bool {
	if !b.inReach(seat, paddleY) {
		return false
	}
	b.Position.X = reachBoundary(seat)
	b.Direction = b.Direction.MirrorX()
	b.Speed += BallSpeedIncrement
	return true
}

// Scorer returns the seat that scores when the ball has left the field
// horizontally. Crossing x<0 scores for Right, crossing x>FieldWidth for Left.
func (b *Ball) Scorer() (Seat, bool) {
	switch {
	case b.Position.X < 0:
		return Right, true
	case b.Position.X > FieldWidth:
		return Left, true
	default:
		return 0, false
	}
}

// Reset puts the ball back at horizontal centre with a random vertical
// offset, a random canonical direction and the starting speed.
func (b *Ball) Reset(r Rand) {
	b.Position = Vector{
		X: FieldWidth / 2,
		Y: float64(BallRadius + r.Intn(FieldHeight-2*BallRadius)),
	}
	b.Direction = RandomDirection(r)
	b.Speed = BallStartingSpeed
}
