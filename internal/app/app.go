package app

import (
	"context"
	"net/http"

	"github.com/naghmatea/site/internal/customtea"
	"github.com/naghmatea/site/internal/customtea/usecase"
	"github.com/naghmatea/site/internal/pkg/clock"
	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/mail"
	"github.com/naghmatea/site/internal/pkg/router"
	"github.com/naghmatea/site/internal/pkg/uid"
	"github.com/naghmatea/site/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// resources
	mail     mail.Mail
	delivery usecase.DeliveryConfig

	// server
	router     *router.Router
	httpServer *http.Server

	// modules
	customTea *customtea.Module

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
// It serves both deployment targets: Start runs the HTTP server, LambdaHandler
// exposes the serverless entry point.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
