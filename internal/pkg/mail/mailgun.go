package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunEUBase = "https://api.eu.mailgun.net/v3"

// ErrMailgunConfigRequired is returned when the API key or domain is missing.
var ErrMailgunConfigRequired = errors.New("mailgun api key and domain are required")

// MailgunConfig configures the Mailgun implementation.
type MailgunConfig struct {
	// APIKey is the private Mailgun API key.
	APIKey string
	// Domain is the sending domain.
	Domain string
	// Region selects the API base: "eu" or the default US.
	Region string
	// From is the default sender when Message.From is empty.
	From string
}

// Mailgun is a Mail implementation backed by the Mailgun API.
type Mailgun struct {
	client      *mailgun.MailgunImpl
	defaultFrom string
}

// NewMailgun constructs a Mailgun mail sender.
func NewMailgun(cfg MailgunConfig) (*Mailgun, error) {
	if cfg.APIKey == "" || cfg.Domain == "" {
		return nil, ErrMailgunConfigRequired
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if strings.EqualFold(cfg.Region, "eu") {
		mg.SetAPIBase(mailgunEUBase)
	}

	return &Mailgun{client: mg, defaultFrom: cfg.From}, nil
}

// Send delivers msg and returns the Mailgun message id.
func (m *Mailgun) Send(ctx context.Context, msg Message) (string, error) {
	from, err := msg.sender(m.defaultFrom)
	if err != nil {
		return "", err
	}

	message := m.client.NewMessage(from, msg.Subject, msg.TextBody, msg.To...)
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}

	_, id, err := m.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("mailgun: send: %w", err)
	}

	return id, nil
}

// Close implements io.Closer for interface compatibility.
func (m *Mailgun) Close() error {
	return nil
}
