package delivery

import "context"

// MessageSender is the adapter interface for the messaging relay that
// delivers replies back to the sender's chat.
type MessageSender interface {
	// Type returns the relay this sender talks to (e.g. "twilio").
	Type() string
	// Send delivers body from the from address to the to address.
	Send(ctx context.Context, from, to, body string) error
	// Ping performs a read-only call proving the credentials are usable.
	Ping(ctx context.Context) error
}
