package domain

import "time"

// AttemptRecord is one rate-limit-relevant event. Records are append-only:
// created on every submission attempt, never mutated, and swept once they age
// past the longest rate-limit window.
type AttemptRecord struct {
	ID          string     `json:"id" db:"id"`
	IPAddress   string     `json:"ip_address" db:"ip_address"`
	Email       string     `json:"email,omitempty" db:"email"`
	Attempts    int        `json:"attempts" db:"attempts"`
	WindowStart time.Time  `json:"window_start" db:"window_start"`
	// BlockedUntil is part of the persisted shape for compatibility with
	// existing stored records; the checking logic does not read it.
	BlockedUntil *time.Time `json:"blocked_until,omitempty" db:"blocked_until"`
}
