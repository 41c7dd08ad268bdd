package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand returns the queued values in order, wrapping modulo n.
type fixedRand struct {
	values []int
	calls  []int
}

func (f *fixedRand) Intn(n int) int {
	f.calls = append(f.calls, n)
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v % n
}

func TestVectorOperations(t *testing.T) {
	a := Vector{X: 1, Y: 2}
	b := Vector{X: -3, Y: 0.5}

	assert.Equal(t, Vector{X: -2, Y: 2.5}, a.Add(b))
	assert.Equal(t, Vector{X: 2.5, Y: 5}, a.Scale(2.5))
	assert.Equal(t, Vector{X: -1, Y: 2}, a.MirrorX())
	assert.Equal(t, Vector{X: 1, Y: -2}, a.MirrorY())

	// values are immutable
	assert.Equal(t, Vector{X: 1, Y: 2}, a)
}

func TestDirectionsAreUnitDiagonals(t *testing.T) {
	require.Len(t, Directions, 4)
	for _, d := range Directions {
		assert.InDelta(t, 1.0, math.Hypot(d.X, d.Y), 1e-9)
		assert.InDelta(t, math.Abs(d.X), math.Abs(d.Y), 1e-12)
	}
}

func TestRandomDirectionReachesAllFour(t *testing.T) {
	r := &fixedRand{values: []int{0, 1, 2, 3}}
	seen := map[Vector]bool{}
	for i := 0; i < 4; i++ {
		seen[RandomDirection(r)] = true
	}
	assert.Len(t, seen, 4)
	for _, n := range r.calls {
		assert.Equal(t, 4, n)
	}
}

func TestSeatOther(t *testing.T) {
	assert.Equal(t, Right, Left.Other())
	assert.Equal(t, Left, Right.Other())
	assert.True(t, Left.Valid())
	assert.False(t, Seat(2).Valid())
	assert.Equal(t, "right", Right.String())
}

func TestBallAdvance(t *testing.T) {
	b := Ball{Position: Vector{X: 100, Y: 100}, Direction: SE, Speed: 40}
	b.Advance(0.5)
	assert.InDelta(t, 100+20*diagonal, b.Position.X, 1e-9)
	assert.InDelta(t, 100+20*diagonal, b.Position.Y, 1e-9)
}

func TestBallBounceWalls(t *testing.T) {
	tests := []struct {
		name      string
		y         float64
		direction Vector
		wantY     float64
		wantDirY  float64
		bounced   bool
	}{
		{"above top", 1, NE, BallRadius, -NE.Y, true},
		{"below bottom", FieldHeight - 1, SE, FieldHeight - BallRadius, -SE.Y, true},
		{"on top boundary", BallRadius, NE, BallRadius, NE.Y, false},
		{"middle", 150, SE, 150, SE.Y, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{Position: Vector{X: 200, Y: tt.y}, Direction: tt.direction, Speed: 40}
			assert.Equal(t, tt.bounced, b.BounceWalls())
			assert.Equal(t, tt.wantY, b.Position.Y)
			assert.Equal(t, tt.wantDirY, b.Direction.Y)
		})
	}
}

func TestBallCollidePaddleLeft(t *testing.T) {
	b := Ball{Position: Vector{X: 12, Y: 150}, Direction: SW, Speed: 40}

	require.True(t, b.CollidePaddle(Left, 150))
	assert.Equal(t, float64(BallRadius+PaddleReach), b.Position.X)
	assert.Equal(t, 14.0, b.Position.X)
	assert.Greater(t, b.Direction.X, 0.0)
	assert.Equal(t, 40+BallSpeedIncrement, b.Speed)
}

func TestBallCollidePaddleRight(t *testing.T) {
	b := Ball{Position: Vector{X: 390, Y: 100}, Direction: NE, Speed: 45}

	require.True(t, b.CollidePaddle(Right, 120))
	assert.Equal(t, float64(FieldWidth-BallRadius-PaddleReach), b.Position.X)
	assert.Less(t, b.Direction.X, 0.0)
	assert.Equal(t, 50.0, b.Speed)
}

func TestBallCollidePaddleMiss(t *testing.T) {
	tests := []struct {
		name    string
		seat    Seat
		pos     Vector
		paddleY float64
	}{
		{"left paddle too low", Left, Vector{X: 12, Y: 150}, 200},
		{"left outside band", Left, Vector{X: 14, Y: 150}, 150},
		{"right paddle too high", Right, Vector{X: 390, Y: 250}, 100},
		{"right outside band", Right, Vector{X: 386, Y: 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{Position: tt.pos, Direction: SW, Speed: 40}
			assert.False(t, b.CollidePaddle(tt.seat, tt.paddleY))
			assert.Equal(t, tt.pos, b.Position)
			assert.Equal(t, 40.0, b.Speed)
		})
	}
}

func TestBallPaddleEdgeIsInclusive(t *testing.T) {
	b := Ball{Position: Vector{X: 10, Y: 125}, Direction: SW, Speed: 40}
	assert.True(t, b.CollidePaddle(Left, 150))
}

func TestBallScorer(t *testing.T) {
	b := Ball{Position: Vector{X: -0.1, Y: 10}}
	seat, ok := b.Scorer()
	require.True(t, ok)
	assert.Equal(t, Right, seat)

	b.Position.X = FieldWidth + 0.1
	seat, ok = b.Scorer()
	require.True(t, ok)
	assert.Equal(t, Left, seat)

	b.Position.X = 0
	_, ok = b.Scorer()
	assert.False(t, ok)
}

func TestBallReset(t *testing.T) {
	r := &fixedRand{values: []int{10, 3}}
	b := Ball{Position: Vector{X: -5, Y: 20}, Direction: SW, Speed: 90}

	b.Reset(r)

	assert.Equal(t, Vector{X: FieldWidth / 2, Y: BallRadius + 10}, b.Position)
	assert.Equal(t, SE, b.Direction)
	assert.Equal(t, BallStartingSpeed, b.Speed)
	assert.Equal(t, []int{FieldHeight - 2*BallRadius, 4}, r.calls)
}

func TestNewBall(t *testing.T) {
	b := NewBall(&fixedRand{values: []int{2}})
	assert.Equal(t, Vector{X: 200, Y: 150}, b.Position)
	assert.Equal(t, NE, b.Direction)
	assert.True(t, inField(b))
}

func inField(b Ball) bool {
	return b.Position.X >= 0 && b.Position.X <= FieldWidth &&
		b.Position.Y >= 0 && b.Position.Y <= FieldHeight
}
