// internal/workers/university/lock-university/handler_test.go
package lockuniversity

import (
	"context"
	"testing"

	"counsel-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_LockReplacesExistingLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM locked_universities`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO locked_universities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	rmock.ExpectDel("user:stage-facts:user-1").SetVal(1)

	h := NewHandler(&Config{}, db, rdb, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{
		UserID:       "user-1",
		UniversityID: "asu",
		Action:       ActionLock,
	})

	require.NoError(t, err)
	assert.True(t, out.Locked)
	assert.Equal(t, "asu", out.UniversityID)
	assert.NotEmpty(t, out.LockedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestExecute_LockDefaultsWhenActionOmitted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM locked_universities`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO locked_universities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewHandler(&Config{}, db, nil, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{UserID: "user-2", UniversityID: "toronto"})

	require.NoError(t, err)
	assert.True(t, out.Locked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_LockUnknownUniversity(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewHandler(&Config{}, db, nil, logger.NewNoOpLogger())
	_, err = h.Execute(context.Background(), &Input{UserID: "user-3", UniversityID: "hogwarts"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownUniversity)
}

func TestExecute_LockInsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM locked_universities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO locked_universities`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	h := NewHandler(&Config{}, db, nil, logger.NewNoOpLogger())
	_, err = h.Execute(context.Background(), &Input{UserID: "user-4", UniversityID: "asu"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLockFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_Unlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()

	mock.ExpectExec(`DELETE FROM locked_universities`).
		WithArgs("user-5").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rmock.ExpectDel("user:stage-facts:user-5").SetVal(1)

	h := NewHandler(&Config{}, db, rdb, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{UserID: "user-5", Action: ActionUnlock})

	require.NoError(t, err)
	assert.False(t, out.Locked)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestExecute_CacheInvalidationFailureTolerated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()

	mock.ExpectExec(`DELETE FROM locked_universities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rmock.ExpectDel("user:stage-facts:user-6").SetErr(assert.AnError)

	h := NewHandler(&Config{}, db, rdb, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{UserID: "user-6", Action: ActionUnlock})

	require.NoError(t, err)
	assert.False(t, out.Locked)
}
