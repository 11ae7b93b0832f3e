package customtea

import (
	"errors"

	"github.com/naghmatea/site/internal/customtea/inbound"
	"github.com/naghmatea/site/internal/customtea/outbound/email"
	"github.com/naghmatea/site/internal/customtea/usecase"
	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/mail"
	"github.com/naghmatea/site/internal/pkg/router"
	"github.com/naghmatea/site/internal/pkg/uid"
	"github.com/naghmatea/site/internal/pkg/validator"
)

type Dependency struct {
	// Config supplies the log mask fields of the serverless access log.
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Validator  validator.Validator
	Router     *router.Router
	// Mail may be nil when the driver could not be built; sends then fail.
	Mail     mail.Mail
	Delivery usecase.DeliveryConfig
}

// Module exposes the entry points that are not mounted on the router.
type Module struct {
	lambda *inbound.LambdaHandler
}

func New(dep Dependency) (*Module, error) {
	if dep.Validator == nil {
		return nil, errors.New("customtea: validator is required")
	}

	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.NewUsecase(usecase.Dependency{
		Validator:  dep.Validator,
		RepoMail:   repoMail,
		Delivery:   dep.Delivery,
		Instrument: dep.Instrument,
	})

	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, uc)
	}

	return &Module{
		lambda: inbound.NewLambdaHandler(
			uc,
			dep.UUID,
			router.NewObserver(dep.Config, dep.Instrument, "lambda"),
			usecase.MessageDeliveryFailed,
		),
	}, nil
}

// Lambda returns the serverless handler for the custom tea endpoint.
func (m *Module) Lambda() *inbound.LambdaHandler {
	return m.lambda
}
