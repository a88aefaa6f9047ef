package leave

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM leave_requests WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	store := NewStore(mock)
	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE leave_requests SET status").
		WithArgs("leave-1", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	store := NewStore(mock)
	assert.NoError(t, store.UpdateStatus(context.Background(), "leave-1", StatusCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM leave_requests").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewStore(mock)
	assert.ErrorIs(t, store.Delete(context.Background(), "missing"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
