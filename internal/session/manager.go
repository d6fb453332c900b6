package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wablastdev/wablast/internal/client"
)

const reconnectBackoffCap = 30 * time.Second

// CredentialStore loads and deletes per-session credential units.
type CredentialStore interface {
	Load(ctx context.Context, name string) (client.Credential, error)
	Delete(name string) error
}

// Config carries the manager's collaborators and tuning knobs.
type Config struct {
	Store  CredentialStore
	Dialer client.Dialer
	// Encode renders a pairing challenge into a displayable image.
	Encode func(challenge string) (string, error)
	Logger *zap.Logger

	// PairingWait bounds how long Create blocks its caller waiting for a
	// first challenge or an open. Defaults to 20s.
	PairingWait time.Duration
	// ReconnectMax caps automatic reboots after transient disconnects.
	ReconnectMax int
	// ReconnectBackoff is the base backoff between reboot attempts; the
	// first retry is immediate, later ones double up to 30s.
	ReconnectBackoff time.Duration
}

// entry is one session's directory record. All fields are guarded by the
// manager's lock; the milestone channel is closed once, on the first
// challenge, open, boot failure or deletion.
type entry struct {
	name        string
	state       State
	closeReason client.CloseReason

	challenge    string
	challengeImg string

	ch    client.Channel
	creds client.Credential

	reconnects int
	bootErr    error

	cancel        context.CancelFunc
	milestone     chan struct{}
	milestoneOnce sync.Once
}

func (e *entry) signal() {
	e.milestoneOnce.Do(func() { close(e.milestone) })
}

// Manager owns the session directory and drives every session's lifecycle:
// boot, pairing wait, reconnect on transient drops and teardown. It is the
// only component that mutates directory entries.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry

	store  CredentialStore
	dialer client.Dialer
	encode func(string) (string, error)
	log    *zap.Logger

	pairingWait      time.Duration
	reconnectMax     int
	reconnectBackoff time.Duration

	inboundMu sync.RWMutex
	inbound   func(name string, msg client.Inbound)
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	if cfg.PairingWait <= 0 {
		cfg.PairingWait = 20 * time.Second
	}
	if cfg.ReconnectMax <= 0 {
		cfg.ReconnectMax = 10
	}
	if cfg.ReconnectBackoff <= 0 {
		cfg.ReconnectBackoff = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Manager{
		entries:          make(map[string]*entry),
		store:            cfg.Store,
		dialer:           cfg.Dialer,
		encode:           cfg.Encode,
		log:              cfg.Logger,
		pairingWait:      cfg.PairingWait,
		reconnectMax:     cfg.ReconnectMax,
		reconnectBackoff: cfg.ReconnectBackoff,
	}
}

// SetInboundHandler registers the handler inbound messages are forwarded to
// while a session is open.
func (m *Manager) SetInboundHandler(h func(name string, msg client.Inbound)) {
	m.inboundMu.Lock()
	m.inbound = h
	m.inboundMu.Unlock()
}

// Create registers a new session under name and boots it. The call returns
// once a pairing challenge is available, the channel opens, or the bounded
// wait elapses, whichever comes first. The boot continues in the background
// regardless of which caller is still waiting.
func (m *Manager) Create(ctx context.Context, name string) (Summary, error) {
	e, err := m.beginBoot(name)
	if err != nil {
		return Summary{}, err
	}
	return m.awaitFirstMilestone(ctx, e)
}

// beginBoot inserts the directory entry and launches the boot goroutine.
// Concurrent creates for one name are serialized by the directory lock:
// exactly one wins.
func (m *Manager) beginBoot(name string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[name]; ok && old.state != StateClosed {
		return nil, ErrAlreadyExists
	}
	bootCtx, cancel := context.WithCancel(context.Background())
	e := &entry{
		name:      name,
		state:     StateInitializing,
		cancel:    cancel,
		milestone: make(chan struct{}),
	}
	m.entries[name] = e
	go m.boot(bootCtx, e, false)
	return e, nil
}

// awaitFirstMilestone blocks until the entry reaches its first observable
// milestone or the pairing wait elapses. Timing out does not destroy the
// entry; pairing may still complete asynchronously.
func (m *Manager) awaitFirstMilestone(ctx context.Context, e *entry) (Summary, error) {
	t := time.NewTimer(m.pairingWait)
	defer t.Stop()
	select {
	case <-e.milestone:
	case <-t.C:
		return Summary{}, ErrPairingTimeout
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if e.bootErr != nil {
		return Summary{}, e.bootErr
	}
	return Summary{Name: e.name, State: e.state, QR: e.challengeImg}, nil
}

// boot loads credentials (reusing them on reconnect), dials the transport
// and hands the channel to a dispatcher. All I/O happens outside the
// directory lock.
func (m *Manager) boot(ctx context.Context, e *entry, reconnect bool) {
	m.mu.RLock()
	creds := e.creds
	m.mu.RUnlock()

	if creds == nil {
		loaded, err := m.store.Load(ctx, e.name)
		if err != nil {
			m.bootFailed(ctx, e, err, reconnect)
			return
		}
		m.mu.Lock()
		if m.entries[e.name] != e {
			m.mu.Unlock()
			loaded.Close()
			return
		}
		e.creds = loaded
		m.mu.Unlock()
		creds = loaded
	}

	ch, err := m.dialer.Dial(ctx, creds)
	if err != nil {
		m.bootFailed(ctx, e, err, reconnect)
		return
	}

	m.mu.Lock()
	if m.entries[e.name] != e {
		m.mu.Unlock()
		ch.Close()
		return
	}
	e.ch = ch
	m.mu.Unlock()

	go m.dispatch(ctx, e, ch)
}

// bootFailed handles a credential or dial error. On an initial boot the
// entry is removed and the error surfaces to the waiting creator; during an
// internal reconnect it is logged and rescheduled, never surfaced.
func (m *Manager) bootFailed(ctx context.Context, e *entry, err error, reconnect bool) {
	if reconnect {
		m.log.Warn("session reconnect failed",
			zap.String("session", e.name), zap.Error(err))
		m.scheduleReboot(ctx, e)
		return
	}

	m.log.Error("session boot failed", zap.String("session", e.name), zap.Error(err))
	m.mu.Lock()
	if m.entries[e.name] == e {
		delete(m.entries, e.name)
	}
	creds := e.creds
	e.creds = nil
	e.state = StateClosed
	e.bootErr = &BootError{Name: e.name, Err: err}
	m.mu.Unlock()

	if creds != nil {
		creds.Close()
	}
	e.signal()
}

// dispatch consumes one channel's events in order and applies them to the
// entry. It exits when the channel closes, the boot context is cancelled, or
// the entry has been replaced in the directory.
func (m *Manager) dispatch(ctx context.Context, e *entry, ch client.Channel) {
	for {
		var ev client.Event
		var ok bool
		select {
		case <-ctx.Done():
			return
		case ev, ok = <-ch.Events():
			if !ok {
				return
			}
		}

		switch ev := ev.(type) {
		case client.PairingChallenge:
			// Challenges rotate; the latest always wins.
			img, err := m.encode(ev.Code)
			if err != nil {
				m.log.Warn("qr encode failed",
					zap.String("session", e.name), zap.Error(err))
				img = ""
			}
			m.mu.Lock()
			if m.entries[e.name] != e {
				m.mu.Unlock()
				return
			}
			e.state = StateAwaitingPairing
			e.challenge = ev.Code
			e.challengeImg = img
			m.mu.Unlock()
			e.signal()

		case client.Opened:
			m.mu.Lock()
			if m.entries[e.name] != e {
				m.mu.Unlock()
				return
			}
			e.state = StateOpen
			e.challenge = ""
			e.challengeImg = ""
			e.reconnects = 0
			m.mu.Unlock()
			m.log.Info("session open", zap.String("session", e.name))
			e.signal()

		case client.Closed:
			m.handleClosed(ctx, e, ch, ev)
			return

		case client.Inbound:
			m.mu.RLock()
			live := m.entries[e.name] == e && e.state == StateOpen
			m.mu.RUnlock()
			if !live {
				continue
			}
			m.inboundMu.RLock()
			h := m.inbound
			m.inboundMu.RUnlock()
			if h != nil {
				h(e.name, ev)
			}
		}
	}
}

func (m *Manager) handleClosed(ctx context.Context, e *entry, ch client.Channel, ev client.Closed) {
	ch.Close()

	if ev.Reason == client.CloseLoggedOut {
		m.log.Info("session logged out, removing entry", zap.String("session", e.name))
		m.mu.Lock()
		removed := m.entries[e.name] == e
		if removed {
			delete(m.entries, e.name)
		}
		creds := e.creds
		e.creds = nil
		e.ch = nil
		e.challenge = ""
		e.challengeImg = ""
		e.state = StateClosed
		e.closeReason = client.CloseLoggedOut
		e.bootErr = &BootError{Name: e.name, Err: ErrUnknownSession}
		m.mu.Unlock()

		if creds != nil {
			creds.Close()
		}
		if removed {
			// Invalidated credentials must not poison the next create.
			if err := m.store.Delete(e.name); err != nil {
				m.log.Warn("credential cleanup failed",
					zap.String("session", e.name), zap.Error(err))
			}
		}
		e.signal()
		return
	}

	// Transient drop: the same entry reboots with its stored credentials.
	// The name stays in the directory throughout.
	m.mu.Lock()
	if m.entries[e.name] != e {
		m.mu.Unlock()
		return
	}
	e.state = StateInitializing
	e.ch = nil
	e.challenge = ""
	e.challengeImg = ""
	m.mu.Unlock()

	m.log.Warn("transient disconnect, rebooting",
		zap.String("session", e.name), zap.Error(ev.Err))
	m.scheduleReboot(ctx, e)
}

// scheduleReboot re-dials after a transient failure, honoring the backoff
// and the attempt ceiling. The timer selects on the boot context so deleting
// the session cancels any pending reboot.
func (m *Manager) scheduleReboot(ctx context.Context, e *entry) {
	m.mu.Lock()
	if m.entries[e.name] != e {
		m.mu.Unlock()
		return
	}
	attempt := e.reconnects
	e.reconnects++
	m.mu.Unlock()

	if attempt >= m.reconnectMax {
		m.log.Error("reconnect attempts exhausted",
			zap.String("session", e.name), zap.Int("attempts", attempt))
		m.mu.Lock()
		if m.entries[e.name] == e {
			e.state = StateClosed
			e.closeReason = client.CloseTransient
		}
		m.mu.Unlock()
		e.signal()
		return
	}

	if delay := m.backoff(attempt); delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
	m.boot(ctx, e, true)
}

func (m *Manager) backoff(attempt int) time.Duration {
	if attempt == 0 {
		return 0
	}
	d := m.reconnectBackoff << (attempt - 1)
	if d <= 0 || d > reconnectBackoffCap {
		return reconnectBackoffCap
	}
	return d
}

// Get returns the externally visible view of a session.
func (m *Manager) Get(name string) (Summary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Summary{}, false
	}
	return Summary{Name: e.name, State: e.state, QR: e.challengeImg}, true
}

// List returns a snapshot of the session names in the directory.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	return names
}

// Count returns the number of directory entries.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// OpenCount returns the number of sessions currently open.
func (m *Manager) OpenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entries {
		if e.state == StateOpen {
			n++
		}
	}
	return n
}

// Send delivers a text message through an open session's channel.
func (m *Manager) Send(ctx context.Context, name, recipient, text string) error {
	m.mu.RLock()
	e, ok := m.entries[name]
	var ch client.Channel
	var st State
	if ok {
		ch = e.ch
		st = e.state
	}
	m.mu.RUnlock()

	if !ok {
		return ErrUnknownSession
	}
	if st != StateOpen || ch == nil {
		return ErrChannelNotReady
	}
	return ch.Send(ctx, recipient, text)
}

// Delete removes a session: cancels any in-flight boot or reconnect,
// attempts an authenticated logout (failure is logged, never blocks
// removal), releases the channel and credentials, and deletes the stored
// credential unit. Returns false when no entry existed.
func (m *Manager) Delete(ctx context.Context, name string) bool {
	m.mu.Lock()
	e, ok := m.entries[name]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.entries, name)
	ch := e.ch
	creds := e.creds
	e.ch = nil
	e.creds = nil
	e.challenge = ""
	e.challengeImg = ""
	e.state = StateClosed
	e.bootErr = &BootError{Name: name, Err: ErrUnknownSession}
	m.mu.Unlock()

	e.cancel()

	if ch != nil {
		if err := ch.Logout(ctx); err != nil {
			m.log.Warn("logout failed",
				zap.String("session", name), zap.Error(err))
		}
		ch.Close()
	}
	if creds != nil {
		creds.Close()
	}
	if err := m.store.Delete(name); err != nil {
		m.log.Warn("credential cleanup failed",
			zap.String("session", name), zap.Error(err))
	}
	e.signal()
	m.log.Info("session removed", zap.String("session", name))
	return true
}
