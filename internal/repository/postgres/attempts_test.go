package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavvi/landing-backend/internal/domain"
)

func newAttemptMock(t *testing.T) (*AttemptRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAttemptRepo(db), mock
}

func TestAttemptCountByIP(t *testing.T) {
	repo, mock := newAttemptMock(t)
	since := time.Now().Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM rate_limit_attempts WHERE ip_address = $1 AND window_start >= $2`)).
		WithArgs("203.0.113.7", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByIP(context.Background(), "203.0.113.7", since)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCountByEmail(t *testing.T) {
	repo, mock := newAttemptMock(t)
	since := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM rate_limit_attempts WHERE email = $1 AND window_start >= $2`)).
		WithArgs("user@example.com", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountByEmail(context.Background(), "user@example.com", since)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCountError(t *testing.T) {
	repo, mock := newAttemptMock(t)
	since := time.Now()

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.CountByIP(context.Background(), "203.0.113.7", since)
	require.Error(t, err)
}

func TestAttemptInsert(t *testing.T) {
	repo, mock := newAttemptMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rate_limit_attempts`)).
		WithArgs(sqlmock.AnyArg(), "203.0.113.7", "user@example.com", 1, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), domain.AttemptRecord{
		IPAddress: "203.0.113.7",
		Email:     "user@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptInsertEmptyEmailIsNull(t *testing.T) {
	repo, mock := newAttemptMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rate_limit_attempts`)).
		WithArgs(sqlmock.AnyArg(), "203.0.113.7", nil, 1, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), domain.AttemptRecord{IPAddress: "203.0.113.7"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptDeleteOlderThan(t *testing.T) {
	repo, mock := newAttemptMock(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM rate_limit_attempts WHERE window_start < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
