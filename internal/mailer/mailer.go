// Package mailer delivers transactional email. Callers depend on the Sender
// interface; which implementation is wired depends on configuration.
package mailer

import "context"

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Result reports whether the provider accepted the message. A provider-side
// rejection is a Result with Success false, not a Go error; errors are for
// transport failures.
type Result struct {
	Success bool
	Error   string
}

// Sender sends a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
