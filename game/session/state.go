package session

// State is the lifecycle stage of a session.
type State int

const (
	Empty State = iota
	AwaitingSecondPlayer
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case AwaitingSecondPlayer:
		return "awaiting_second_player"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
