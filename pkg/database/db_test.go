package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &DB{DB: sqlx.NewDb(mockDB, "postgres"), logger: zap.NewNop()}, mock
}

func TestWithTransactionCommitSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionCommitFailureIsReturned(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
