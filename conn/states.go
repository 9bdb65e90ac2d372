package conn

type State uint32

const (
	Handshaking State = iota
	Reading
	Dispatching
	Writing
	Closed
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Reading:
		return "reading"
	case Dispatching:
		return "dispatching"
	case Writing:
		return "writing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
