package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP selects the SMTP relay backend.
	DriverSMTP = "smtp"
	// DriverPostmark selects the Postmark API backend.
	DriverPostmark = "postmark"
	// DriverMailgun selects the Mailgun API backend.
	DriverMailgun = "mailgun"
	// DriverResend selects the Resend API backend.
	DriverResend = "resend"
	// DriverSES selects the Amazon SES backend.
	DriverSES = "ses"
)

// ErrUnknownDriver indicates an unsupported mail driver.
var ErrUnknownDriver = errors.New("mail: unknown driver")

// FactoryOptions groups configuration for mail drivers.
type FactoryOptions struct {
	// SMTP configures the SMTP backend.
	SMTP SMTPConfig
	// Postmark configures the Postmark backend.
	Postmark PostmarkConfig
	// Mailgun configures the Mailgun backend.
	Mailgun MailgunConfig
	// Resend configures the Resend backend.
	Resend ResendConfig
	// SES configures the Amazon SES backend.
	SES SESConfig
}

// NewFromDriver constructs a Mail implementation by driver name.
// An empty driver selects SMTP.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Mail, error) {
	var (
		m   Mail
		err error
	)

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSMTP:
		m, err = NewSMTP(opts.SMTP)
	case DriverPostmark:
		m, err = NewPostmark(opts.Postmark)
	case DriverMailgun:
		m, err = NewMailgun(opts.Mailgun)
	case DriverResend:
		m, err = NewResend(opts.Resend)
	case DriverSES:
		m, err = NewSES(ctx, opts.SES)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}
