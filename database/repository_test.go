package database

import (
	"context"
	"endify/models"
	"endify/storage"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tasks-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func newTask(name string) *models.Task {
	return &models.Task{
		Name:    name,
		Subject: "Math",
		Teacher: "Ms. Rivera",
		Date:    "2025-10-17",
		Time:    "14:30",
		Color:   "#FFD1DC",
	}
}

func TestTaskCRUD(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Create assigns increasing ids", func(t *testing.T) {
		first := newTask("Homework 1")
		second := newTask("Homework 2")

		require.NoError(t, repo.CreateTask(ctx, first))
		require.NoError(t, repo.CreateTask(ctx, second))

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("Create then get returns the same fields", func(t *testing.T) {
		task := newTask("Essay")
		require.NoError(t, repo.CreateTask(ctx, task))

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)

		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Essay", got.Name)
		assert.Equal(t, "Math", got.Subject)
		assert.Equal(t, "Ms. Rivera", got.Teacher)
		assert.Equal(t, "2025-10-17", got.Date)
		assert.Equal(t, "14:30", got.Time)
		assert.Equal(t, "#FFD1DC", got.Color)
		assert.False(t, got.Completed)
	})

	t.Run("Update toggles completion", func(t *testing.T) {
		task := newTask("Lab report")
		require.NoError(t, repo.CreateTask(ctx, task))

		task.Completed = true
		task.Name = "Lab report v2"
		require.NoError(t, repo.UpdateTask(ctx, task))

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "Lab report v2", got.Name)
	})

	t.Run("Delete removes the record", func(t *testing.T) {
		task := newTask("Throwaway")
		require.NoError(t, repo.CreateTask(ctx, task))

		require.NoError(t, repo.DeleteTask(ctx, task.ID))

		_, err := repo.GetTask(ctx, task.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Unknown ids report not found", func(t *testing.T) {
		_, err := repo.GetTask(ctx, 999999)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = repo.UpdateTask(ctx, &models.Task{ID: 999999, Name: "x", Date: "2025-01-01", Time: "10:00"})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = repo.DeleteTask(ctx, 999999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListTasks(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.CreateTask(ctx, newTask(name)))
	}

	tasks, err = repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "A", tasks[0].Name)
	assert.Equal(t, "C", tasks[2].Name)
}

func TestPreferences(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	_, ok, err := repo.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetPreference(ctx, "theme", "dark"))
	require.NoError(t, repo.SetPreference(ctx, "theme", "light"))

	value, ok, err := repo.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)
}
