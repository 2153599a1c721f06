package main

import (
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/infrastructure"
	"github.com/JaimeStill/flyer-viewer/internal/routes"
	"github.com/JaimeStill/flyer-viewer/internal/server"
	"github.com/JaimeStill/flyer-viewer/internal/viewer"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra  *infrastructure.Infrastructure
	domain *Domain
	http   server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	domain := NewDomain(infra, cfg)

	routeSys := routes.New(infra.Logger)
	viewerHandler := viewer.NewHandler(domain.Viewer, infra.Logger, cfg.Pagination)
	if err := registerRoutes(routeSys, infra.Lifecycle, viewerHandler, cfg); err != nil {
		return nil, err
	}

	handler := buildMiddleware(infra.Logger).Apply(routeSys.Build())

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	return &Server{
		infra:  infra,
		domain: domain,
		http:   server.New(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns once the listener is bound.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.domain.Start(s.infra); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown cancels every subsystem and waits up to timeout for them to finish.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
