package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kavvi/landing-backend/internal/domain"
)

// AttemptRepo implements ratelimit.Store against PostgreSQL.
type AttemptRepo struct{ db *sql.DB }

// NewAttemptRepo creates a Postgres-backed attempt log.
func NewAttemptRepo(db *sql.DB) *AttemptRepo { return &AttemptRepo{db: db} }

func (r *AttemptRepo) CountByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limit_attempts WHERE ip_address = $1 AND window_start >= $2`,
		ip, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts by ip: %w", err)
	}
	return n, nil
}

func (r *AttemptRepo) CountByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limit_attempts WHERE email = $1 AND window_start >= $2`,
		email, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts by email: %w", err)
	}
	return n, nil
}

func (r *AttemptRepo) Insert(ctx context.Context, rec domain.AttemptRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Attempts == 0 {
		rec.Attempts = 1
	}
	if rec.WindowStart.IsZero() {
		rec.WindowStart = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_limit_attempts (id, ip_address, email, attempts, window_start, blocked_until)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.IPAddress, nullable(rec.Email), rec.Attempts, rec.WindowStart, rec.BlockedUntil)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_limit_attempts WHERE window_start < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old attempts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
