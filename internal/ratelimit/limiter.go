// Package ratelimit implements the dual-key sliding-window abuse limiter for
// landing form submissions: one policy per originating IP, one per contact
// email, both backed by a persistent append-only attempt log.
package ratelimit

import (
	"context"
	"time"

	"github.com/kavvi/landing-backend/internal/domain"
	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

// Store is the persistent attempt log. Implementations must serialize
// individual reads and writes but are not expected to provide cross-call
// transactions; count-then-insert is deliberately non-atomic (see Limiter).
type Store interface {
	CountByIP(ctx context.Context, ip string, since time.Time) (int, error)
	CountByEmail(ctx context.Context, email string, since time.Time) (int, error)
	Insert(ctx context.Context, rec domain.AttemptRecord) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Policy is one sliding-window limit: at most MaxAttempts within Window,
// measured backward from the moment of each check.
type Policy struct {
	Window      time.Duration
	MaxAttempts int
}

// Default policies. The IP window is short and generous (shared NATs); the
// email window is long and tight (one human, one address).
var (
	DefaultIPPolicy    = Policy{Window: time.Hour, MaxAttempts: 5}
	DefaultEmailPolicy = Policy{Window: 24 * time.Hour, MaxAttempts: 3}
)

// Scope identifies which policy produced a decision.
type Scope string

const (
	ScopeIP    Scope = "ip"
	ScopeEmail Scope = "email"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Scope      Scope
	RetryAfter time.Duration
}

var allowed = Decision{Allowed: true}

// Limiter evaluates both policies against the attempt store.
//
// The limiter fails open: if the store is unreachable or a count errors, the
// request is allowed rather than blocking legitimate traffic. Two concurrent
// submissions under the same key may both pass a check before either records;
// this race is accepted — the limiter is best-effort abuse control, not a
// security boundary.
type Limiter struct {
	store Store
	ip    Policy
	email Policy
	now   func() time.Time
}

// New creates a limiter with the default policies.
func New(store Store) *Limiter {
	return NewWithPolicies(store, DefaultIPPolicy, DefaultEmailPolicy)
}

// NewWithPolicies creates a limiter with explicit policies.
func NewWithPolicies(store Store, ip, email Policy) *Limiter {
	return &Limiter{store: store, ip: ip, email: email, now: time.Now}
}

// SetClock overrides the limiter's clock. Test hook.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Check evaluates the IP policy, then the email policy, returning the first
// blocking decision. It does not record the attempt; callers record exactly
// once per submission via RecordAttempt regardless of the outcome.
func (l *Limiter) Check(ctx context.Context, ip, email string) Decision {
	now := l.now()

	count, err := l.store.CountByIP(ctx, ip, now.Add(-l.ip.Window))
	if err != nil {
		logger.Error("rate limit IP check failed, allowing", "ip", ip, "error", err.Error())
	} else if count >= l.ip.MaxAttempts {
		return Decision{Scope: ScopeIP, RetryAfter: l.ip.Window}
	}

	if email != "" {
		count, err = l.store.CountByEmail(ctx, email, now.Add(-l.email.Window))
		if err != nil {
			logger.Error("rate limit email check failed, allowing", "email", email, "error", err.Error())
		} else if count >= l.email.MaxAttempts {
			return Decision{Scope: ScopeEmail, RetryAfter: l.email.Window}
		}
	}

	return allowed
}

// RecordAttempt appends one attempt record for this submission. Best-effort:
// store errors are logged and swallowed so a broken log never blocks the
// request path.
func (l *Limiter) RecordAttempt(ctx context.Context, ip, email string) {
	rec := domain.AttemptRecord{
		IPAddress:   ip,
		Email:       email,
		Attempts:    1,
		WindowStart: l.now(),
	}
	if err := l.store.Insert(ctx, rec); err != nil {
		logger.Error("failed to record rate limit attempt", "ip", ip, "email", email, "error", err.Error())
	}
}

// Cleanup deletes attempt records older than the longest window (24h).
// Idempotent and safe to run concurrently with inserts and reads: it only
// touches strictly-old rows.
func (l *Limiter) Cleanup(ctx context.Context) (int64, error) {
	cutoff := l.now().Add(-l.email.Window)
	deleted, err := l.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Info("cleaned up old rate limit records", "deleted", deleted)
	}
	return deleted, nil
}
