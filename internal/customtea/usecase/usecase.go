package usecase

import (
	"context"
	"log/slog"

	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/mail"
	"github.com/naghmatea/site/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	outcomeDelivered     = "delivered"
	outcomeSpam          = "spam"
	outcomeInvalid       = "invalid"
	outcomeNotConfigured = "not_configured"
	outcomeFailed        = "failed"
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type Usecase struct {
	validator   validator.Validator
	repoMail    repoMail
	delivery    DeliveryConfig
	ins         instrument.Instrumentation
	submissions metric.Int64Counter
}

type Dependency struct {
	Validator  validator.Validator
	RepoMail   repoMail
	Delivery   DeliveryConfig
	Instrument instrument.Instrumentation
}

func NewUsecase(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	counter, err := ins.Meter("customtea.usecase").Int64Counter(
		"customtea.submissions",
		metric.WithDescription("Custom tea requests by outcome"),
	)
	if err != nil {
		slog.Error("failed to create custom tea submissions counter", "error", err)
	}

	return &Usecase{
		validator:   dep.Validator,
		repoMail:    dep.RepoMail,
		delivery:    dep.Delivery,
		ins:         ins,
		submissions: counter,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("customtea.usecase").Start(ctx, name)
}

func (s *Usecase) record(ctx context.Context, outcome string) {
	if s.submissions == nil {
		return
	}
	s.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
