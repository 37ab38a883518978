// Package app wires configuration, the dispatcher and the HTTP server
// into a runnable application.
package app

import (
	"context"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
	"github.com/pangyre/catalyst-runtime/internal/config"
	"github.com/pangyre/catalyst-runtime/internal/dispatch"
	"github.com/pangyre/catalyst-runtime/internal/server"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
	Logger     logging.Logger

	srv *server.Server
}

// New creates the application: it builds the dispatcher from the
// configuration, registers the built-in components and runs action
// setup. After New returns the dispatcher is immutable.
func New(cfg *config.Config) (*App, error) {
	logger := logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"})

	d := dispatch.New(dispatch.Options{
		Preload:  cfg.Preload(),
		Postload: cfg.Postload(),
		Debug:    cfg.DispatchDebug,
		Logger:   logging.GetGlobalLogger(),
	})

	d.RegisterComponent("site", NewSite())
	d.RegisterComponent("status", NewStatus())

	if err := d.SetupActions(); err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Dispatcher: d,
		Logger:     logger,
	}, nil
}

// RunServer builds and returns the HTTP server fronting the dispatcher.
func (a *App) RunServer() *server.Server {
	a.srv = server.New(a.Dispatcher, a.Config.Port)
	return a.srv
}

// Shutdown stops the HTTP server, waiting up to the configured window.
func (a *App) Shutdown(ctx context.Context) error {
	if a.srv == nil {
		return nil
	}
	return a.srv.Shutdown(ctx)
}
