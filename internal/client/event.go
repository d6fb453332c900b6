package client

import "time"

// CloseReason classifies channel closure into the two buckets the lifecycle
// controller cares about: terminal logout versus everything else.
type CloseReason int

const (
	// CloseTransient covers network blips, server restarts and stream
	// errors; reconnecting with the stored credentials is appropriate.
	CloseTransient CloseReason = iota
	// CloseLoggedOut means the credentials were invalidated remotely.
	// The session must not reconnect; a fresh pairing is required.
	CloseLoggedOut
)

// String returns a string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseTransient:
		return "transient"
	case CloseLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Event is a transport lifecycle or message event. The concrete types below
// are the only implementations; each session's events are consumed in order
// by a single dispatcher.
type Event interface {
	isEvent()
}

// PairingChallenge carries a pairing code to be rendered as a QR image.
// The transport may rotate codes; each challenge supersedes the previous.
type PairingChallenge struct {
	Code string
}

// Opened signals that the channel is authenticated and ready to send.
type Opened struct{}

// Closed terminates the channel's life.
type Closed struct {
	Reason CloseReason
	Err    error
}

// Inbound is a message received while the channel is open.
type Inbound struct {
	Sender    string
	PushName  string
	Content   string
	Timestamp time.Time
}

func (PairingChallenge) isEvent() {}
func (Opened) isEvent()           {}
func (Closed) isEvent()           {}
func (Inbound) isEvent()          {}
