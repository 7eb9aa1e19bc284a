// Package postgres implements the lead store and the rate-limit attempt
// store against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kavvi/landing-backend/internal/config"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the tables this backend owns. Idempotent; runs at
// startup so fresh environments need no separate migration step.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			email             TEXT NOT NULL,
			whatsapp          TEXT NOT NULL,
			company           TEXT,
			source            TEXT NOT NULL,
			action_type       TEXT NOT NULL,
			utm_data          JSONB,
			created_at        TIMESTAMPTZ NOT NULL,
			trial_expires     TIMESTAMPTZ,
			demo_scheduled    TIMESTAMPTZ,
			calendar_event_id TEXT,
			external_lead_id  TEXT,
			status            TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at)`,
		`CREATE TABLE IF NOT EXISTS rate_limit_attempts (
			id            TEXT PRIMARY KEY,
			ip_address    TEXT NOT NULL,
			email         TEXT,
			attempts      INTEGER NOT NULL DEFAULT 1,
			window_start  TIMESTAMPTZ NOT NULL,
			blocked_until TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ip_window ON rate_limit_attempts (ip_address, window_start)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_email_window ON rate_limit_attempts (email, window_start)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
