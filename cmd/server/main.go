package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/kavvi/landing-backend/internal/api"
	"github.com/kavvi/landing-backend/internal/calendar"
	"github.com/kavvi/landing-backend/internal/config"
	"github.com/kavvi/landing-backend/internal/crm"
	"github.com/kavvi/landing-backend/internal/landing"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
	"github.com/kavvi/landing-backend/internal/ratelimit"
	"github.com/kavvi/landing-backend/internal/repository/postgres"
	"github.com/kavvi/landing-backend/internal/repository/redisrepo"
	"github.com/kavvi/landing-backend/internal/worker"
)

// checkPortAvailable verifies that the target port is not already in use,
// so a stale process never silently swallows traffic meant for us.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		logger.Error("pre-flight check failed", "error", err.Error())
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		logger.Error("failed to ensure schema", "error", err.Error())
		os.Exit(1)
	}
	cancelSchema()
	logger.Info("database connected")

	// Attempt store: Redis when requested and reachable, Postgres otherwise.
	var (
		attemptStore ratelimit.Store = postgres.NewAttemptRepo(db)
		redisClient  *redis.Client
	)
	if cfg.RateLimit.Driver == "redis" && cfg.Redis.URL != "" {
		store, err := redisrepo.NewFromURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis attempt store unavailable, falling back to postgres", "error", err.Error())
		} else {
			attemptStore = store
			redisClient = store.Client()
			defer store.Close()
			logger.Info("redis attempt store connected")
		}
	}

	limiter := ratelimit.NewWithPolicies(attemptStore,
		ratelimit.Policy{Window: cfg.RateLimit.IPWindow(), MaxAttempts: cfg.RateLimit.IPMaxAttempts},
		ratelimit.Policy{Window: cfg.RateLimit.EmailWindow(), MaxAttempts: cfg.RateLimit.EmailMaxAttempts},
	)

	kavviClient := crm.NewClient(cfg.Kavvi)
	if !kavviClient.Configured() {
		logger.Warn("LANDINGS_SUBMIT_SECRET not set, CRM forwarding will fail open")
	}

	var calClient *calendar.Client
	if cfg.Google.Enabled() {
		calClient = calendar.NewClient(cfg.Google, cfg.Landing.SalesRepEmail)
		logger.Info("google calendar integration enabled")
	} else {
		logger.Info("google calendar integration disabled, demo ids will be minted locally")
	}

	svc := landing.NewService(
		limiter,
		postgres.NewLeadRepo(db),
		kavviClient,
		kavviClient,
		calendarOrNil(calClient),
		landing.Options{
			Source:        cfg.Landing.Source,
			TrialDuration: cfg.Landing.TrialDuration(),
		},
	)

	cleanup := worker.NewAttemptCleanup(limiter, cfg.RateLimit.CleanupInterval())
	if err := cleanup.Start(); err != nil {
		logger.Error("failed to start cleanup worker", "error", err.Error())
		os.Exit(1)
	}

	health := api.NewHealthChecker(db, redisClient, kavviClient.Configured())
	server := api.NewServer(cfg.Server, svc, kavviClient, calClient, health)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err.Error())
	}
	cleanup.Stop()
	logger.Info("shutdown complete")
}

// calendarOrNil keeps the orchestrator's CalendarScheduler nil when the
// integration is off; a typed nil would defeat the service's nil check.
func calendarOrNil(c *calendar.Client) landing.CalendarScheduler {
	if c == nil {
		return nil
	}
	return c
}
