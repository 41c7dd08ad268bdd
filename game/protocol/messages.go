package protocol

// Kind is the value of the Type discriminator.
type Kind string

const (
	KindPlayerNumber   Kind = "PlayerNumberMessage"
	KindPlayerPosition Kind = "PlayerPositionMessage"
	KindBallPosition   Kind = "BallPositionMessage"
	KindScore          Kind = "ScoreMessage"
)

// Message is any server to client payload.
type Message interface {
	Kind() Kind
}

// PlayerNumberMessage tells a client which seat it occupies.
type PlayerNumberMessage struct {
	Type         Kind `json:"Type" msgpack:"Type"`
	PlayerNumber int  `json:"PlayerNumber" msgpack:"PlayerNumber"`
}

func (PlayerNumberMessage) Kind() Kind { return KindPlayerNumber }

// PlayerPositionMessage carries the opponent's paddle centre.
type PlayerPositionMessage struct {
	Type Kind `json:"Type" msgpack:"Type"`
	YPos int  `json:"YPos" msgpack:"YPos"`
}

func (PlayerPositionMessage) Kind() Kind { return KindPlayerPosition }

// BallPositionMessage carries the ball centre.
type BallPositionMessage struct {
	Type Kind `json:"Type" msgpack:"Type"`
	XPos int  `json:"XPos" msgpack:"XPos"`
	YPos int  `json:"YPos" msgpack:"YPos"`
}

func (BallPositionMessage) Kind() Kind { return KindBallPosition }

// ScoreMessage carries both scores, index 0 being the left seat.
type ScoreMessage struct {
	Type  Kind   `json:"Type" msgpack:"Type"`
	Score [2]int `json:"Score" msgpack:"Score"`
}

func (ScoreMessage) Kind() Kind { return KindScore }

// NewPlayerNumber builds a seat assignment message.
func NewPlayerNumber(seat int) PlayerNumberMessage {
	return PlayerNumberMessage{Type: KindPlayerNumber, PlayerNumber: seat}
}

// NewPlayerPosition builds a paddle position message. y is truncated to
// whole pixels.
func NewPlayerPosition(y float64) PlayerPositionMessage {
	return PlayerPositionMessage{Type: KindPlayerPosition, YPos: int(y)}
}

// NewBallPosition builds a ball position message. Coordinates are truncated
// to whole pixels.
func NewBallPosition(x, y float64) BallPositionMessage {
	return BallPositionMessage{Type: KindBallPosition, XPos: int(x), YPos: int(y)}
}

// NewScore builds a score message from a copy of score.
func NewScore(score [2]int) ScoreMessage {
	return ScoreMessage{Type: KindScore, Score: score}
}

// positionUpdate is the inbound shape of PlayerPositionMessage. YPos is a
// float because browsers report fractional mouse coordinates.
type positionUpdate struct {
	Type Kind     `json:"Type,omitempty" msgpack:"Type,omitempty"`
	YPos *float64 `json:"YPos" msgpack:"YPos"`
}

func (u positionUpdate) validate() (float64, error) {
	if u.Type != "" && u.Type != KindPlayerPosition {
		return 0, ErrUnexpectedMessage
	}
	if u.YPos == nil {
		return 0, ErrMalformedMessage
	}
	return *u.YPos, nil
}

// PaddleUpdate is what a client sends to move its own paddle.
type PaddleUpdate struct {
	Type Kind    `json:"Type" msgpack:"Type"`
	YPos float64 `json:"YPos" msgpack:"YPos"`
}

func (PaddleUpdate) Kind() Kind { return KindPlayerPosition }

// NewPaddleUpdate builds a client paddle move.
func NewPaddleUpdate(y float64) PaddleUpdate {
	return PaddleUpdate{Type: KindPlayerPosition, YPos: y}
}

// Envelope is the union of every server message, as read by a client. Only
// the fields matching Type are meaningful.
type Envelope struct {
	Type         Kind   `json:"Type" msgpack:"Type"`
	PlayerNumber int    `json:"PlayerNumber" msgpack:"PlayerNumber"`
	XPos         int    `json:"XPos" msgpack:"XPos"`
	YPos         int    `json:"YPos" msgpack:"YPos"`
	Score        [2]int `json:"Score" msgpack:"Score"`
}

func (e Envelope) validate() error {
	switch e.Type {
	case KindPlayerNumber, KindPlayerPosition, KindBallPosition, KindScore:
		return nil
	case "":
		return ErrMalformedMessage
	default:
		return ErrUnexpectedMessage
	}
}
