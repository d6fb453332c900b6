package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists is returned by Create when a non-closed entry
	// already holds the requested name.
	ErrAlreadyExists = errors.New("session already exists")

	// ErrUnknownSession is returned when operating on a name with no
	// directory entry.
	ErrUnknownSession = errors.New("session not found")

	// ErrPairingTimeout is returned when Create's bounded wait elapses
	// before a pairing challenge or an open. The session entry survives
	// and may still complete pairing afterwards.
	ErrPairingTimeout = errors.New("timed out waiting for pairing")

	// ErrChannelNotReady is returned by Send unless the session is open.
	ErrChannelNotReady = errors.New("session channel not ready")
)

// BootError wraps a credential-load or transport-open failure during session
// boot.
type BootError struct {
	Name string
	Err  error
}

func (e *BootError) Error() string {
	return fmt.Sprintf("session %s boot failed: %v", e.Name, e.Err)
}

func (e *BootError) Unwrap() error {
	return e.Err
}
