// Package core provides the API chassis for the EventPulse platform. It
// creates a chi router and enforces cross-cutting concerns -- panic recovery,
// request correlation, logging, and error handling -- before requests reach
// domain-specific handlers.
package core

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpulse/internal/config"
)

// Server encapsulates the cross-cutting dependencies for the EventPulse API,
// allowing for easy injection during testing and distinct configuration for
// different environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// HealthProbes are checked by the /health endpoint. Registered by the
	// composition root (cmd/api) for each critical dependency.
	HealthProbes []HealthProbe

	// V1RouteRegistrars are called by MountRoutes to register domain handler
	// routes under /v1. Populated by cmd/api to avoid an import cycle between
	// core and handler packages.
	V1RouteRegistrars []func(chi.Router)

	// Internal router
	router *chi.Mux
}

// NewServer initializes the chassis and prepares the server for route
// mounting. It performs a fail-fast check on critical configuration.
//
// The caller is responsible for mounting routes (via MountRoutes) after
// construction. This separation allows tests to customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
// This is used internally by route-mounting methods and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
