package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/naghmatea/site/internal/customtea/entity"
	"github.com/naghmatea/site/internal/pkg/goerror"
	"github.com/naghmatea/site/internal/pkg/mail"
	"github.com/naghmatea/site/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// User-facing messages. They are never localized.
const (
	MessageMissingFields  = "Missing required fields."
	MessageNotConfigured  = "Email service not configured."
	MessageDeliveryFailed = "Failed to send message."
)

// ErrNotConfigured is wrapped when the deployment lacks delivery settings.
var ErrNotConfigured = errors.New("customtea: email service not configured")

type SubmitInput struct {
	CustomerName  string `validate:"required"`
	CustomerEmail string `validate:"required"`
	CustomerPhone string
	DreamTea      string `validate:"required"`
	Quantity      string
	Lang          string
	Honeypot      string
}

func (in SubmitInput) submission() entity.Submission {
	return entity.Submission{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		DreamTea:      in.DreamTea,
		Quantity:      in.Quantity,
		Lang:          in.Lang,
		Honeypot:      in.Honeypot,
	}
}

// SubmitOutput carries the provider message id. Suppressed is set for
// honeypot hits, which callers answer like a delivery.
type SubmitOutput struct {
	ID         string
	Suppressed bool
}

// Compose validates in and renders the localized message. It has no side
// effects besides tracing.
func (s *Usecase) Compose(ctx context.Context, in SubmitInput) (*entity.Message, error) {
	ctx, span := s.startSpan(ctx, "Compose")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		var fields validator.V10ValidationError
		if errors.As(err, &fields) {
			slog.WarnContext(ctx, "custom tea request missing required fields", "fields", fields.Values())
		} else {
			slog.WarnContext(ctx, "custom tea request failed validation", "error", err)
		}
		return nil, goerror.NewInvalidInput(err, MessageMissingFields)
	}

	msg := entity.Compose(in.submission())
	span.SetAttributes(attribute.String("customtea.lang", msg.Lang))

	return &msg, nil
}

// Submit runs the honeypot, validation and configuration gates in order and
// then hands the message to the mail transport exactly once.
func (s *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	ctx, span := s.startSpan(ctx, "Submit")
	defer span.End()

	if in.submission().Spam() {
		slog.InfoContext(ctx, "custom tea request suppressed by honeypot")
		s.record(ctx, outcomeSpam)
		return &SubmitOutput{Suppressed: true}, nil
	}

	msg, err := s.Compose(ctx, in)
	if err != nil {
		s.record(ctx, outcomeInvalid)
		return nil, err
	}

	if missing := s.delivery.Missing(); len(missing) > 0 {
		slog.ErrorContext(ctx, "email service not configured", "driver", s.delivery.Driver, "missing", missing)
		span.SetStatus(codes.Error, ErrNotConfigured.Error())
		s.record(ctx, outcomeNotConfigured)
		return nil, goerror.NewServer(ErrNotConfigured, MessageNotConfigured)
	}

	id, err := s.repoMail.Send(ctx, mail.Message{
		From:     s.delivery.Sender(),
		To:       s.delivery.Recipients(),
		ReplyTo:  msg.ReplyTo,
		Subject:  msg.Subject,
		TextBody: msg.Text,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send custom tea request", "lang", msg.Lang, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.record(ctx, outcomeFailed)
		return nil, goerror.NewServer(err, MessageDeliveryFailed)
	}

	slog.InfoContext(ctx, "custom tea request delivered", "id", id, "lang", msg.Lang)
	s.record(ctx, outcomeDelivered)

	return &SubmitOutput{ID: id}, nil
}
