package download

// State is a step of the fetch state machine.
type State int

// Fetch states in the order they are entered. Failed may follow any of them.
const (
	StatePending State = iota
	StateDownloading
	StateVerifying
	StateVerifySkipped
	StateExtracting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StatePending:       "pending",
	StateDownloading:   "downloading",
	StateVerifying:     "verifying",
	StateVerifySkipped: "verify-skipped",
	StateExtracting:    "extracting",
	StateDone:          "done",
	StateFailed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Event represents a simple progress notification.
type Event struct {
	State State
	Asset string
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func (h Hooks) emit(state State, asset, msg string) {
	if h.OnEvent != nil {
		h.OnEvent(Event{State: state, Asset: asset, Msg: msg})
	}
}
