package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavvi/landing-backend/internal/domain"
)

func newLeadMock(t *testing.T) (*LeadRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLeadRepo(db), mock
}

func TestLeadInsert(t *testing.T) {
	repo, mock := newLeadMock(t)

	now := time.Now().UTC()
	expires := now.Add(72 * time.Hour)
	lead := &domain.LeadRecord{
		Name:           "Maria Souza",
		Email:          "maria@example.com",
		WhatsApp:       "+5511999999999",
		Company:        "Acme Ltda",
		Source:         "landing-whatsapp",
		ActionType:     domain.ActionTrial,
		UTMData:        domain.UTMData{Source: "google"},
		CreatedAt:      now,
		TrialExpires:   &expires,
		ExternalLeadID: "ext-42",
		Status:         domain.LeadStatusActive,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO leads`)).
		WithArgs(sqlmock.AnyArg(), "Maria Souza", "maria@example.com", "+5511999999999",
			"Acme Ltda", "landing-whatsapp", "trial", []byte(`{"utm_source":"google"}`),
			now, &expires, nil, nil, "ext-42", "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), lead))
	assert.NotEmpty(t, lead.ID, "missing id is generated on insert")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadInsertOptionalFieldsNull(t *testing.T) {
	repo, mock := newLeadMock(t)

	lead := &domain.LeadRecord{
		ID:         "lead-1",
		Name:       "Maria Souza",
		Email:      "maria@example.com",
		WhatsApp:   "+5511999999999",
		Source:     "landing-whatsapp",
		ActionType: domain.ActionDemo,
		CreatedAt:  time.Now().UTC(),
		Status:     domain.LeadStatusActive,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO leads`)).
		WithArgs("lead-1", "Maria Souza", "maria@example.com", "+5511999999999",
			nil, "landing-whatsapp", "demo", []byte(`{}`), sqlmock.AnyArg(),
			nil, nil, nil, nil, "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), lead))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadGetByID(t *testing.T) {
	repo, mock := newLeadMock(t)

	created := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "whatsapp", "company", "source", "action_type",
		"utm_data", "created_at", "trial_expires", "demo_scheduled",
		"calendar_event_id", "external_lead_id", "status",
	}).AddRow("lead-1", "Maria Souza", "maria@example.com", "+5511999999999",
		"Acme Ltda", "landing-whatsapp", "trial", []byte(`{"utm_source":"google"}`),
		created, nil, nil, nil, "ext-42", "active")

	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs("lead-1").
		WillReturnRows(rows)

	lead, err := repo.GetByID(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", lead.Name)
	assert.Equal(t, "Acme Ltda", lead.Company)
	assert.Equal(t, domain.ActionTrial, lead.ActionType)
	assert.Equal(t, "google", lead.UTMData.Source)
	assert.Equal(t, "ext-42", lead.ExternalLeadID)
	assert.Empty(t, lead.CalendarEventID)
	assert.Nil(t, lead.TrialExpires)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadGetByIDNotFound(t *testing.T) {
	repo, mock := newLeadMock(t)

	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
}
