package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/podsync/backend/internal/domain/mockup"
	"github.com/podsync/backend/internal/domain/shared"
)

func TestGormMockupTaskRepository_FindByTaskKey(t *testing.T) {
	t.Run("finds existing task", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMockupTaskRepository(gormDB)

		taskID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "task_key", "catalog_product_id", "variant_ids", "status"}).
			AddRow(taskID, "task-abc", int64(71), `[101]`, "PENDING")

		mock.ExpectQuery(`SELECT \* FROM "mockup_tasks" WHERE task_key = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("task-abc", 1).
			WillReturnRows(rows)

		task, err := repo.FindByTaskKey(context.Background(), "task-abc")

		require.NoError(t, err)
		assert.Equal(t, "task-abc", task.TaskKey)
		assert.Equal(t, mockup.TaskStatusPending, task.Status)
		assert.True(t, task.IsPending())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown key", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMockupTaskRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "mockup_tasks" WHERE task_key = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		task, err := repo.FindByTaskKey(context.Background(), "missing")

		assert.Nil(t, task)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormMockupTaskRepository_Save(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMockupTaskRepository(gormDB)

	task, err := mockup.NewTask("task-abc", 71, []int64{101})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "mockup_tasks" .* ON CONFLICT \("task_key"\) DO UPDATE SET .*`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), task)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMockupResultRepository(t *testing.T) {
	t.Run("find by task key round-trips json payloads", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMockupResultRepository(gormDB)

		resultID := uuid.New()
		mockupsJSON := `[{"MockupURL":"https://img.example.com/main.png","VariantIDs":[101,102]}]`
		printfilesJSON := `[{"URL":"https://img.example.com/print.png","VariantIDs":[101]}]`

		rows := sqlmock.NewRows([]string{"id", "task_key", "mockups", "printfiles"}).
			AddRow(resultID, "task-abc", mockupsJSON, printfilesJSON)

		mock.ExpectQuery(`SELECT \* FROM "mockup_results" WHERE task_key = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("task-abc", 1).
			WillReturnRows(rows)

		result, err := repo.FindByTaskKey(context.Background(), "task-abc")

		require.NoError(t, err)
		require.Len(t, result.Mockups, 1)
		assert.Equal(t, []int64{101, 102}, result.Mockups[0].VariantIDs)

		pf, ok := result.PrintfileForVariant(101)
		require.True(t, ok)
		assert.Equal(t, "https://img.example.com/print.png", pf.URL)
	})

	t.Run("save ignores conflicts on task key", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMockupResultRepository(gormDB)

		result, err := mockup.NewResult("task-abc", []mockup.Mockup{
			{MockupURL: "https://img.example.com/main.png", VariantIDs: []int64{101}},
		}, nil)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "mockup_results" .* ON CONFLICT \("task_key"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), result)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
