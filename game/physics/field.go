package physics

// Field geometry. Clients hardcode the same values.
const (
	FieldWidth           = 400
	FieldHeight          = 300
	PaddleWidth          = 6
	PaddleHeight         = 50
	PaddleToEdgeDistance = 5
	PaddleReach          = PaddleToEdgeDistance + PaddleWidth
	BallRadius           = 3

	BallStartingSpeed  = 40.0 // px/s
	BallSpeedIncrement = 5.0  // px/s per paddle hit
)

// Seat identifies a paddle side.
type Seat int

const (
	Left Seat = iota
	Right
)

// Seats lists both seats in index order.
var Seats = [...]Seat{Left, Right}

// Other returns the opposite seat.
func (s Seat) Other() Seat {
	if s == Left {
		return Right
	}
	return Left
}

func (s Seat) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether s is Left or Right.
func (s Seat) Valid() bool {
	return s == Left || s == Right
}

// Field describes the geometry constants, for clients and admin tooling.
type Field struct {
	Width                float64 `json:"field_width"`
	Height               float64 `json:"field_height"`
	PaddleWidth          float64 `json:"paddle_width"`
	PaddleHeight         float64 `json:"paddle_height"`
	PaddleToEdgeDistance float64 `json:"paddle_to_edge_distance"`
	BallRadius           float64 `json:"ball_radius"`
	BallStartingSpeed    float64 `json:"ball_starting_speed"`
	BallSpeedIncrement   float64 `json:"ball_speed_increment"`
}

// DefaultField returns the field constants as a value.
func DefaultField() Field {
	return Field{
		Width:                FieldWidth,
		Height:               FieldHeight,
		PaddleWidth:          PaddleWidth,
		PaddleHeight:         PaddleHeight,
		PaddleToEdgeDistance: PaddleToEdgeDistance,
		BallRadius:           BallRadius,
		BallStartingSpeed:    BallStartingSpeed,
		BallSpeedIncrement:   BallSpeedIncrement,
	}
}
