package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kavvi/landing-backend/internal/domain"
)

// LeadRepo implements landing.LeadStore against PostgreSQL.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

func (r *LeadRepo) Insert(ctx context.Context, lead *domain.LeadRecord) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}

	utmJSON, err := json.Marshal(lead.UTMData)
	if err != nil {
		return fmt.Errorf("marshal utm data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO leads (
			id, name, email, whatsapp, company, source, action_type, utm_data,
			created_at, trial_expires, demo_scheduled, calendar_event_id,
			external_lead_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, lead.ID, lead.Name, lead.Email, lead.WhatsApp, nullable(lead.Company),
		lead.Source, string(lead.ActionType), utmJSON, lead.CreatedAt,
		lead.TrialExpires, lead.DemoScheduled, nullable(lead.CalendarEventID),
		nullable(lead.ExternalLeadID), string(lead.Status))
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID fetches a single lead. Used by diagnostics, not the hot path.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*domain.LeadRecord, error) {
	var (
		lead    domain.LeadRecord
		company sql.NullString
		utmJSON []byte
		calID   sql.NullString
		extID   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, whatsapp, company, source, action_type,
		       utm_data, created_at, trial_expires, demo_scheduled,
		       calendar_event_id, external_lead_id, status
		FROM leads WHERE id = $1
	`, id).Scan(&lead.ID, &lead.Name, &lead.Email, &lead.WhatsApp, &company,
		&lead.Source, &lead.ActionType, &utmJSON, &lead.CreatedAt,
		&lead.TrialExpires, &lead.DemoScheduled, &calID, &extID, &lead.Status)
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	lead.Company = company.String
	lead.CalendarEventID = calID.String
	lead.ExternalLeadID = extID.String
	if len(utmJSON) > 0 {
		if err := json.Unmarshal(utmJSON, &lead.UTMData); err != nil {
			return nil, fmt.Errorf("unmarshal utm data: %w", err)
		}
	}
	return &lead, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
