package service

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDB = errors.New("database connection lost")

func newMockDBAndTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	smock.ExpectBegin()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	return sqlxDB, tx, smock
}

// expectTx makes the next BeginTxx on transactor return a fresh mocked
// transaction that is expected to commit or roll back.
func expectTx(t *testing.T, transactor *TransactorMock, commit bool) *sqlx.Tx {
	t.Helper()

	_, tx, smock := newMockDBAndTx(t)
	if commit {
		smock.ExpectCommit()
	} else {
		smock.ExpectRollback()
	}

	transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil).Once()

	return tx
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
