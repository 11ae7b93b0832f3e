package mail

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipients is returned when Message.To is empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when both Message.From and the configured default From are empty.
	ErrNoSender = errors.New("mail: no sender provided")
)

// Message represents a plain-text email payload.
type Message struct {
	// From is an optional explicit sender; drivers fall back to their default.
	From string
	// To lists required recipients.
	To []string
	// ReplyTo is the optional address replies should go to.
	ReplyTo string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
}

// Mail abstracts an email provider (SMTP, third-party API, etc).
type Mail interface {
	io.Closer
	// Send dispatches msg and returns the provider's message identifier.
	Send(ctx context.Context, msg Message) (string, error)
}

func (m Message) sender(fallback string) (string, error) {
	if len(m.To) == 0 {
		return "", ErrNoRecipients
	}
	if m.From != "" {
		return m.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}
