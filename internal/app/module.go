package app

import (
	"log/slog"
	"os"

	"github.com/naghmatea/site/internal/customtea"
)

func (a *App) initModules() {
	mod, err := customtea.New(customtea.Dependency{
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Validator:  a.validator,
		Router:     a.router,
		Mail:       a.mail,
		Delivery:   a.delivery,
	})
	if err != nil {
		slog.Error("failed to init module customtea", "error", err)
		os.Exit(1)
	}
	a.customTea = mod
}
