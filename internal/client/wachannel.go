package client

import (
	"context"
	"fmt"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	wastore "go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/wablastdev/wablast/internal/credstore"
)

// WhatsmeowDialer opens whatsmeow-backed channels from stored credentials.
type WhatsmeowDialer struct {
	log *zap.Logger
}

// NewWhatsmeowDialer creates a dialer for real WhatsApp connections.
func NewWhatsmeowDialer(log *zap.Logger) *WhatsmeowDialer {
	return &WhatsmeowDialer{log: log}
}

// Dial connects a channel using the given credentials. When the device has
// not paired before, the QR channel is attached so pairing challenges flow
// into the event stream. A connect failure is a boot failure; no channel is
// returned.
func (d *WhatsmeowDialer) Dial(ctx context.Context, cred Credential) (Channel, error) {
	creds, ok := cred.(*credstore.Credentials)
	if !ok {
		return nil, fmt.Errorf("unsupported credential type %T", cred)
	}
	wastore.SetOSInfo("Linux", wastore.GetWAVersion())
	wastore.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()

	cli := whatsmeow.NewClient(creds.Device, waLog.Stdout("WhatsApp-"+creds.Name, "WARN", true))
	// Reconnect decisions belong to the session manager, not the library.
	cli.EnableAutoReconnect = false

	ch := &waChannel{
		cli:    cli,
		log:    d.log.With(zap.String("session", creds.Name)),
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
	cli.AddEventHandler(ch.handleWhatsmeowEvent)

	if !creds.Registered() {
		qrChan, err := cli.GetQRChannel(ctx)
		if err != nil {
			return nil, fmt.Errorf("qr channel for %s: %w", creds.Name, err)
		}
		go ch.watchQR(qrChan)
	}

	if err := cli.Connect(); err != nil {
		ch.Close()
		return nil, fmt.Errorf("connect %s: %w", creds.Name, err)
	}
	return ch, nil
}

// waChannel adapts one whatsmeow client to the Channel contract.
type waChannel struct {
	cli    *whatsmeow.Client
	log    *zap.Logger
	events chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func (c *waChannel) Events() <-chan Event {
	return c.events
}

func (c *waChannel) emit(ev Event) {
	select {
	case <-c.done:
	case c.events <- ev:
	}
}

// watchQR forwards rotating pairing codes. Success and timeout are not
// forwarded here: success arrives as events.Connected and a pairing timeout
// surfaces as a disconnect from the main event handler.
func (c *waChannel) watchQR(items <-chan whatsmeow.QRChannelItem) {
	for item := range items {
		if item.Event == whatsmeow.QRChannelEventCode {
			c.emit(PairingChallenge{Code: item.Code})
		}
	}
}

func (c *waChannel) handleWhatsmeowEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		c.emit(Opened{})
	case *events.LoggedOut:
		c.log.Info("logged out by server", zap.String("reason", e.Reason.String()))
		c.emit(Closed{Reason: CloseLoggedOut})
	case *events.Disconnected:
		c.emit(Closed{Reason: CloseTransient})
	case *events.StreamError:
		c.log.Warn("stream error", zap.String("code", e.Code))
		c.emit(Closed{Reason: CloseTransient, Err: fmt.Errorf("stream error: %s", e.Code)})
	case *events.Message:
		c.emit(Inbound{
			Sender:    e.Info.Sender.User,
			PushName:  e.Info.PushName,
			Content:   textContent(e.Message),
			Timestamp: e.Info.Timestamp,
		})
	}
}

func textContent(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if t := msg.GetConversation(); t != "" {
		return t
	}
	return msg.GetExtendedTextMessage().GetText()
}

func (c *waChannel) Send(ctx context.Context, recipient, text string) error {
	if !c.cli.IsConnected() {
		return fmt.Errorf("channel not connected")
	}
	jid := types.NewJID(recipient, types.DefaultUserServer)
	msg := &waE2E.Message{Conversation: proto.String(text)}
	if _, err := c.cli.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("send to %s: %w", recipient, err)
	}
	return nil
}

func (c *waChannel) Logout(ctx context.Context) error {
	return c.cli.Logout(ctx)
}

func (c *waChannel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cli.Disconnect()
	})
}
