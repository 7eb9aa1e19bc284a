// Package api exposes the landing backend over HTTP: form submission, demo
// scheduling, analytics tracking and health probes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kavvi/landing-backend/internal/calendar"
	"github.com/kavvi/landing-backend/internal/config"
	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/landing"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

// analyticsSink forwards tracking events. Matches the orchestrator's
// best-effort contract.
type analyticsSink interface {
	Emit(ctx context.Context, event domain.AnalyticsEvent)
}

// Server hosts the landing API.
type Server struct {
	cfg       config.ServerConfig
	svc       *landing.Service
	analytics analyticsSink
	calendar  *calendar.Client
	health    *HealthChecker

	httpServer *http.Server
}

// NewServer wires the HTTP layer. analytics and cal may be nil.
func NewServer(cfg config.ServerConfig, svc *landing.Service, analytics analyticsSink, cal *calendar.Client, health *HealthChecker) *Server {
	return &Server{
		cfg:       cfg,
		svc:       svc,
		analytics: analytics,
		calendar:  cal,
		health:    health,
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.GetHost(), s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("landing API listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
