package mail

import (
	"bytes"
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/naghmatea/site/internal/pkg/clock"
	"github.com/naghmatea/site/internal/pkg/uid"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPAuthUnsupported is returned when credentials are set but the server does not offer AUTH.
	ErrSMTPAuthUnsupported = errors.New("smtp server does not support AUTH")
)

var headerSanitizer = strings.NewReplacer("\r", "", "\n", "")

// SMTP is a Mail implementation backed by net/smtp.
//
// With Secure set the connection is TLS from the first byte (port 465 style);
// otherwise it is plain TCP upgraded with STARTTLS when the server offers it.
type SMTP struct {
	addr        string
	host        string
	secure      bool
	defaultFrom string
	auth        smtp.Auth
	clock       clock.Clocker
	uuid        uid.StringID
}

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username.
	Username string
	// Password is the SMTP authentication password.
	Password string
	// Secure enables implicit TLS.
	Secure bool
	// From is the default sender when Message.From is empty.
	From string
	// Clock stamps the Date header. Defaults to the system clock.
	Clock clock.Clocker
	// UUID generates the local part of Message-ID. Defaults to UUIDv7.
	UUID uid.StringID
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	s := &SMTP{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:        cfg.Host,
		secure:      cfg.Secure,
		defaultFrom: cfg.From,
		auth:        auth,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.uuid == nil {
		s.uuid = uid.NewUUID()
	}

	return s, nil
}

// Send delivers a message over SMTP and returns the generated Message-ID.
func (s *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	from, err := msg.sender(s.defaultFrom)
	if err != nil {
		return "", err
	}

	envelopeFrom := address(from)
	id := fmt.Sprintf("<%s@%s>", s.uuid.Generate(), s.messageIDDomain(envelopeFrom))

	raw, err := s.build(from, id, msg)
	if err != nil {
		return "", err
	}

	client, stop, err := s.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("smtp: dial %s: %w", s.addr, err)
	}
	defer stop()
	defer client.Close()

	if err := s.deliver(client, envelopeFrom, msg.To, raw); err != nil {
		return "", err
	}

	return id, nil
}

// Close implements io.Closer for interface compatibility.
func (s *SMTP) Close() error {
	return nil
}

// dial connects to the relay. The returned stop func detaches the context
// watcher that aborts the conversation when ctx is cancelled.
func (s *SMTP) dial(ctx context.Context) (*smtp.Client, func() bool, error) {
	dialer := &net.Dialer{}

	var (
		conn net.Conn
		err  error
	)
	if s.secure {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: s.tlsConfig()}).DialContext(ctx, "tcp", s.addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", s.addr)
	}
	if err != nil {
		return nil, nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, nil, err
	}

	return client, stop, nil
}

func (s *SMTP) deliver(client *smtp.Client, from string, to []string, raw []byte) error {
	if !s.secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("smtp: starttls: %w", err)
			}
		}
	}

	if s.auth != nil {
		if ok, _ := client.Extension("AUTH"); !ok {
			return ErrSMTPAuthUnsupported
		}
		if err := client.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(address(rcpt)); err != nil {
			return fmt.Errorf("smtp: rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close body: %w", err)
	}

	return client.Quit()
}

func (s *SMTP) build(from, id string, msg Message) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", headerSanitizer.Replace(msg.Subject)))
	writeHeader(&buf, "Date", s.clock.Now().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", id)
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", "text/plain; charset=UTF-8")
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.TextBody)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *SMTP) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
}

func (s *SMTP) messageIDDomain(from string) string {
	_, domain, _ := strings.Cut(from, "@")
	return cmp.Or(strings.TrimSpace(domain), s.host)
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(headerSanitizer.Replace(value))
	buf.WriteString("\r\n")
}

// address extracts the bare addr-spec from values like "Name <a@b.c>".
func address(v string) string {
	if parsed, err := netmail.ParseAddress(v); err == nil {
		return parsed.Address
	}
	return strings.TrimSpace(v)
}
