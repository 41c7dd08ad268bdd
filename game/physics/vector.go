package physics

import "math"

// Vector is an immutable 2D vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// MirrorX negates the X component.
func (v Vector) MirrorX() Vector {
	return Vector{X: -v.X, Y: v.Y}
}

// MirrorY negates the Y component.
func (v Vector) MirrorY() Vector {
	return Vector{X: v.X, Y: -v.Y}
}

var diagonal = 1 / math.Sqrt2

// Canonical ball directions. They are the only directions a ball starts or
// restarts with.
var (
	NW = Vector{X: -diagonal, Y: -diagonal}
	SW = Vector{X: -diagonal, Y: diagonal}
	NE = Vector{X: diagonal, Y: -diagonal}
	SE = Vector{X: diagonal, Y: diagonal}
)

// Directions lists the canonical directions.
var Directions = [...]Vector{NW, SW, NE, SE}

// Rand is the source of pseudo-randomness used for ball resets.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// RandomDirection picks one of the canonical directions uniformly.
func RandomDirection(r Rand) Vector {
	return Directions[r.Intn(len(Directions))]
}
