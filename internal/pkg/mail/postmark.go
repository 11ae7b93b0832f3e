package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// ErrPostmarkTokenRequired is returned when the server token is missing.
var ErrPostmarkTokenRequired = errors.New("postmark server token is required")

// PostmarkConfig configures the Postmark implementation.
type PostmarkConfig struct {
	// ServerToken authenticates message sends.
	ServerToken string
	// AccountToken is optional and only needed for account-level calls.
	AccountToken string
	// From is the default sender when Message.From is empty.
	From string
}

// Postmark is a Mail implementation backed by the Postmark API.
type Postmark struct {
	client      *postmark.Client
	defaultFrom string
}

// NewPostmark constructs a Postmark mail sender.
func NewPostmark(cfg PostmarkConfig) (*Postmark, error) {
	if cfg.ServerToken == "" {
		return nil, ErrPostmarkTokenRequired
	}

	return &Postmark{
		client:      postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		defaultFrom: cfg.From,
	}, nil
}

// Send delivers msg and returns the Postmark MessageID.
func (p *Postmark) Send(ctx context.Context, msg Message) (string, error) {
	from, err := msg.sender(p.defaultFrom)
	if err != nil {
		return "", err
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     from,
		To:       strings.Join(msg.To, ","),
		ReplyTo:  msg.ReplyTo,
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return "", fmt.Errorf("postmark: send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return "", fmt.Errorf("postmark: error %d: %s", resp.ErrorCode, resp.Message)
	}

	return resp.MessageID, nil
}

// Close implements io.Closer for interface compatibility.
func (p *Postmark) Close() error {
	return nil
}
