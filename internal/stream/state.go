package stream

// State is the consumer lifecycle state.
type State int32

const (
	Idle State = iota
	Connected
	Subscribed
	Delivering
	Reconnecting
	Disconnected
	ShuttingDown
)

var stateNames = [...]string{
	Idle:         "idle",
	Connected:    "connected",
	Subscribed:   "subscribed",
	Delivering:   "delivering",
	Reconnecting: "reconnecting",
	Disconnected: "disconnected",
	ShuttingDown: "shutting_down",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Disconnected || s == ShuttingDown
}
