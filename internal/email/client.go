// Package email defines the interface for transactional email delivery and
// provides Resend- and SMTP-backed implementations.
package email

import "context"

// Attachment is a binary file included with an outgoing message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string // MIME hint, e.g. "application/pdf"
}

// Message is a fully rendered email. It is built fresh per dispatch, sent
// once, and discarded — no outbox or sent-message log is kept.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string // plain-text alternative; may be empty
	Attachments []Attachment
}

// Sender is the interface the webhook and sequence paths use to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send delivers a single message and returns the provider's message id
	// when one is available (empty string otherwise).
	Send(ctx context.Context, msg Message) (string, error)
}
