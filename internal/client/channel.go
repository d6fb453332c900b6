package client

import "context"

// Channel is one live transport connection. Implementations emit lifecycle
// events on Events in the order the transport produced them and stop
// emitting after Close.
type Channel interface {
	// Events yields the channel's event stream. The stream ends when the
	// channel closes it or stops emitting after Close.
	Events() <-chan Event

	// Send delivers a text message to a recipient phone number. It fails
	// unless the channel has reported Opened.
	Send(ctx context.Context, recipient, text string) error

	// Logout performs an authenticated logout, invalidating the stored
	// credentials on the server side. Best-effort.
	Logout(ctx context.Context) error

	// Close tears the connection down without logging out.
	Close()
}

// Credential is stored authentication material for one session.
type Credential interface {
	// Registered reports whether the credentials belong to an already
	// paired device, allowing a connection to open without a challenge.
	Registered() bool
	Close() error
}

// Dialer opens an authenticated channel from stored credentials. Dial may
// fail immediately on network or storage errors; such failures are boot
// failures for the session being created.
type Dialer interface {
	Dial(ctx context.Context, creds Credential) (Channel, error)
}
