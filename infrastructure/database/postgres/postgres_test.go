package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T, monitorPings ...bool) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(len(monitorPings) > 0 && monitorPings[0]))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(db), mock
}

func TestRunInTransaction(t *testing.T) {
	t.Run("confirma quando fn termina sem erro", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM report_dispatches").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec("DELETE FROM report_dispatches")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("desfaz quando fn falha", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("desfaz e repassa panic", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWaitReady(t *testing.T) {
	conn, mock := newMock(t, true)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	require.NoError(t, conn.waitReady(context.Background(), 3, time.Millisecond))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitReady_GivesUp(t *testing.T) {
	conn, mock := newMock(t, true)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := conn.waitReady(context.Background(), 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 tentativas")
}
