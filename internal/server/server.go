// Package server exposes the dispatcher over HTTP. Every path is
// handed to the resolution engine; the transport only translates
// between HTTP and the dispatch context.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pangyre/catalyst-runtime/internal/dispatch"
	"github.com/pangyre/catalyst-runtime/internal/middleware"
)

// Server represents the HTTP server fronting a dispatcher.
type Server struct {
	srv *http.Server
}

// New creates a server for the dispatcher, listening on the given port.
func New(d *dispatch.Dispatcher, port string) *Server {
	router := NewRouter(d)
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// NewRouter assembles the request pipeline: request IDs, access
// logging, then the catch-all dispatch handler.
func NewRouter(d *dispatch.Dispatcher) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.PathPrefix("/").Handler(NewHandler(d))
	return router
}

// Start starts the server in the background.
func (s *Server) Start() error {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
