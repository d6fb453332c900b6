package session

// State is the lifecycle state of a session.
type State int

const (
	StateInitializing State = iota
	StateAwaitingPairing
	StateOpen
	StateClosed
)

// String returns a string representation of the session state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAwaitingPairing:
		return "awaiting_pairing"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Summary is the externally visible view of a session. It never carries the
// live channel handle.
type Summary struct {
	Name  string `json:"user"`
	State State  `json:"-"`
	// QR is the rendered pairing challenge (PNG data URL) while the
	// session awaits pairing; empty otherwise.
	QR string `json:"qrcode,omitempty"`
}

// AddSessionRequest represents a request to add a new session.
type AddSessionRequest struct {
	User string `json:"user" binding:"required"`
}

// LogoutRequest represents a request to remove a session.
type LogoutRequest struct {
	User string `json:"user" binding:"required"`
}
