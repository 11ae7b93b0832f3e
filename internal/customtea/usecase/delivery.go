package usecase

import (
	"cmp"
	"strings"

	"github.com/naghmatea/site/internal/pkg/mail"
)

// DeliveryConfig is the mail delivery setup a deployment was started with.
// SMTPPort stays a string: presence is checked here, parsing belongs to the
// transport.
type DeliveryConfig struct {
	Driver string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	From string
	To   string

	PostmarkServerToken string
	MailgunAPIKey       string
	MailgunDomain       string
	ResendAPIKey        string
}

// Sender is the From address: the explicit override, else the SMTP username.
func (c DeliveryConfig) Sender() string {
	return cmp.Or(c.From, c.SMTPUsername)
}

// Recipients splits To on commas.
func (c DeliveryConfig) Recipients() []string {
	var out []string
	for _, rcpt := range strings.Split(c.To, ",") {
		if rcpt = strings.TrimSpace(rcpt); rcpt != "" {
			out = append(out, rcpt)
		}
	}
	return out
}

// Missing returns the environment names of the settings the selected driver
// needs but did not get.
func (c DeliveryConfig) Missing() []string {
	var required [][2]string

	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case mail.DriverPostmark:
		required = [][2]string{{"POSTMARK_SERVER_TOKEN", c.PostmarkServerToken}, {"SMTP_FROM", c.Sender()}}
	case mail.DriverMailgun:
		required = [][2]string{{"MAILGUN_API_KEY", c.MailgunAPIKey}, {"MAILGUN_DOMAIN", c.MailgunDomain}, {"SMTP_FROM", c.Sender()}}
	case mail.DriverResend:
		required = [][2]string{{"RESEND_API_KEY", c.ResendAPIKey}, {"SMTP_FROM", c.Sender()}}
	case mail.DriverSES:
		required = [][2]string{{"SMTP_FROM", c.Sender()}}
	default:
		required = [][2]string{
			{"SMTP_HOST", c.SMTPHost},
			{"SMTP_PORT", c.SMTPPort},
			{"SMTP_USER", c.SMTPUsername},
			{"SMTP_PASS", c.SMTPPassword},
		}
	}
	required = append(required, [2]string{"TO_EMAIL", c.To})

	var missing []string
	for _, r := range required {
		if r[1] == "" {
			missing = append(missing, r[0])
		}
	}
	return missing
}

// Configured reports whether every required setting is present.
func (c DeliveryConfig) Configured() bool {
	return len(c.Missing()) == 0
}
