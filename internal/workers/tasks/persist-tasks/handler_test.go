// internal/workers/tasks/persist-tasks/handler_test.go
package persisttasks

import (
	"context"
	"testing"

	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{Title: "Register for TOEFL/IELTS", Category: models.TaskCategoryExam, Priority: models.TaskPriorityHigh},
		{Title: "Request official transcripts", Category: models.TaskCategoryApplication, Priority: models.TaskPriorityHigh},
	}
}

func TestExecute_InsertsBatchInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tasks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tasks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewHandler(&Config{}, db, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{UserID: "user-1", Tasks: sampleTasks()})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Persisted)
	assert.Len(t, out.TaskIDs, 2)
	assert.NotEqual(t, out.TaskIDs[0], out.TaskIDs[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tasks`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	h := NewHandler(&Config{}, db, logger.NewNoOpLogger())
	_, err = h.Execute(context.Background(), &Input{UserID: "user-1", Tasks: sampleTasks()})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_EmptyBatchSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewHandler(&Config{}, db, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{UserID: "user-1"})

	require.NoError(t, err)
	assert.Zero(t, out.Persisted)
	assert.Empty(t, out.TaskIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_BatchUserIDFillsMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "user-7", "Pay the application fee", "", models.TaskCategoryApplication,
			models.TaskPriorityMedium, false, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewHandler(&Config{}, db, logger.NewNoOpLogger())
	_, err = h.Execute(context.Background(), &Input{
		UserID: "user-7",
		Tasks: []models.Task{
			{Title: "Pay the application fee", Category: models.TaskCategoryApplication, Priority: models.TaskPriorityMedium},
		},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
