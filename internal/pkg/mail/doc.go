// Package mail defines the contracts for sending email messages.
//
// Use cases work with the Mail interface and the Message payload; the concrete
// delivery mechanism is picked at boot by NewFromDriver. SMTP is built on
// net/smtp, the API providers (Postmark, Mailgun, Resend, Amazon SES) on their
// Go SDKs.
// Every driver returns the provider's message identifier on success.
package mail
