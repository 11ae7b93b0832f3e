package app

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/naghmatea/site/internal/customtea/usecase"
	"github.com/naghmatea/site/internal/pkg/clock"
	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/mail"
	"github.com/naghmatea/site/internal/pkg/router"
	"github.com/naghmatea/site/internal/pkg/uid"
	"github.com/naghmatea/site/internal/pkg/validator"
	"github.com/rs/cors"
)

const defaultConfigPath = "./config/config.yaml"

func (a *App) initConfig() {
	if os.Getenv("LOCAL") == "true" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to load .env file", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.NewViper(cmp.Or(os.Getenv("CONFIG_PATH"), defaultConfigPath))
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

// initMail never exits: a broken mail setup turns into a per-request 500 so
// the site keeps answering.
func (a *App) initMail() {
	a.delivery = usecase.DeliveryConfig{
		Driver:              strings.TrimSpace(a.config.GetString("mail.driver")),
		SMTPHost:            a.config.GetString("mail.smtp.host"),
		SMTPPort:            a.config.GetString("mail.smtp.port"),
		SMTPUsername:        a.config.GetString("mail.smtp.username"),
		SMTPPassword:        a.config.GetString("mail.smtp.password"),
		From:                a.config.GetString("mail.from"),
		To:                  a.config.GetString("mail.to"),
		PostmarkServerToken: a.config.GetString("mail.postmark.server_token"),
		MailgunAPIKey:       a.config.GetString("mail.mailgun.api_key"),
		MailgunDomain:       a.config.GetString("mail.mailgun.domain"),
		ResendAPIKey:        a.config.GetString("mail.resend.api_key"),
	}

	if missing := a.delivery.Missing(); len(missing) > 0 {
		slog.Warn("mail delivery is not configured", "driver", a.delivery.Driver, "missing", missing)
		return
	}

	var port int
	if a.delivery.Driver == "" || strings.EqualFold(a.delivery.Driver, mail.DriverSMTP) {
		p, err := strconv.Atoi(strings.TrimSpace(a.delivery.SMTPPort))
		if err != nil {
			slog.Error("failed to parse smtp port", "port", a.delivery.SMTPPort, "error", err)
			return
		}
		port = p
	}

	sender := a.delivery.Sender()
	client, err := mail.NewFromDriver(a.ctx, a.delivery.Driver, mail.FactoryOptions{
		SMTP: mail.SMTPConfig{
			Host:     a.delivery.SMTPHost,
			Port:     port,
			Username: a.delivery.SMTPUsername,
			Password: a.delivery.SMTPPassword,
			Secure:   strings.EqualFold(strings.TrimSpace(a.config.GetString("mail.smtp.secure")), "true"),
			From:     sender,
			Clock:    a.clock,
			UUID:     a.uuid,
		},
		Postmark: mail.PostmarkConfig{
			ServerToken:  a.delivery.PostmarkServerToken,
			AccountToken: a.config.GetString("mail.postmark.account_token"),
			From:         sender,
		},
		Mailgun: mail.MailgunConfig{
			APIKey: a.delivery.MailgunAPIKey,
			Domain: a.delivery.MailgunDomain,
			Region: a.config.GetString("mail.mailgun.region"),
			From:   sender,
		},
		Resend: mail.ResendConfig{
			APIKey: a.delivery.ResendAPIKey,
			From:   sender,
		},
		SES: mail.SESConfig{
			Region:       strings.TrimSpace(a.config.GetString("mail.ses.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("mail.ses.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("mail.ses.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("mail.ses.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("mail.ses.session_token")),
			From:         sender,
		},
	})
	if err != nil {
		slog.Error("failed to init mail", "driver", a.delivery.Driver, "error", err)
		return
	}

	a.mail = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		Instrument:      a.ins,
		FallbackMessage: usecase.MessageDeliveryFailed,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Mail",
			fn: func(context.Context) error {
				if a.mail == nil {
					return nil
				}
				return a.mail.Close()
			},
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
