package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ErrResendKeyRequired is returned when the API key is missing.
var ErrResendKeyRequired = errors.New("resend api key is required")

// ResendConfig configures the Resend implementation.
type ResendConfig struct {
	// APIKey authenticates requests.
	APIKey string
	// From is the default sender when Message.From is empty.
	From string
}

// Resend is a Mail implementation backed by the Resend API.
type Resend struct {
	client      *resend.Client
	defaultFrom string
}

// NewResend constructs a Resend mail sender.
func NewResend(cfg ResendConfig) (*Resend, error) {
	if cfg.APIKey == "" {
		return nil, ErrResendKeyRequired
	}

	return &Resend{client: resend.NewClient(cfg.APIKey), defaultFrom: cfg.From}, nil
}

// Send delivers msg and returns the Resend email id.
func (r *Resend) Send(ctx context.Context, msg Message) (string, error) {
	from, err := msg.sender(r.defaultFrom)
	if err != nil {
		return "", err
	}

	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.TextBody,
	})
	if err != nil {
		return "", fmt.Errorf("resend: send: %w", err)
	}

	return sent.Id, nil
}

// Close implements io.Closer for interface compatibility.
func (r *Resend) Close() error {
	return nil
}
