package driven

import "context"

// Message is a completed notification ready for delivery.
type Message struct {
	// Recipient is the destination address.
	Recipient string

	// Subject is the message subject line.
	Subject string

	// Body is the plain-text message body.
	Body string
}

// Notifier delivers a completed message to a downstream channel (e.g. email).
type Notifier interface {
	// Send delivers the message or returns a delivery error.
	Send(ctx context.Context, msg Message) error
}
