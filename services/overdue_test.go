package services

import (
	"context"
	"endify/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func overdueFixture() []models.Task {
	return []models.Task{
		{ID: 1, Name: "Future", Date: "2026-01-10", Time: "09:01"},
		{ID: 2, Name: "Yesterday", Date: "2026-01-09", Time: "18:00"},
		{ID: 3, Name: "Last week", Date: "2026-01-03", Time: "08:00"},
		{ID: 4, Name: "Done", Date: "2026-01-02", Time: "08:00", Completed: true},
		{ID: 5, Name: "Right now", Date: "2026-01-10", Time: "09:00"},
	}
}

func TestOverdueTracker_Overdue(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	tracker := NewOverdueTracker(newTestTaskService(store, new(MockScheduler)))

	store.On("ListTasks", ctx).Return(overdueFixture(), nil)

	overdue, err := tracker.Overdue(ctx)

	require.NoError(t, err)
	ids := make([]int64, 0, len(overdue))
	for _, task := range overdue {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{3, 2, 5}, ids)
}

func TestOverdueTracker_ResolveOverdue(t *testing.T) {
	ctx := context.Background()

	t.Run("ignore hides the task from NextOverdue", func(t *testing.T) {
		store := new(MockStore)
		tracker := NewOverdueTracker(newTestTaskService(store, new(MockScheduler)))

		store.On("ListTasks", ctx).Return(overdueFixture(), nil)
		store.On("GetTask", ctx, int64(3)).Return(&models.Task{ID: 3, Name: "Last week"}, nil)

		next, err := tracker.NextOverdue(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, int64(3), next.ID)

		_, err = tracker.ResolveOverdue(ctx, 3, OverdueIgnore)
		require.NoError(t, err)
		assert.True(t, tracker.IsHandled(3))

		next, err = tracker.NextOverdue(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, int64(2), next.ID)
	})

	t.Run("complete marks the task completed", func(t *testing.T) {
		store := new(MockStore)
		scheduler := new(MockScheduler)
		tracker := NewOverdueTracker(newTestTaskService(store, scheduler))

		store.On("GetTask", ctx, int64(2)).Return(&models.Task{ID: 2, Date: "2026-01-09", Time: "18:00"}, nil)
		scheduler.On("Cancel", ctx, int64(2)).Return(nil)
		store.On("UpdateTask", ctx, mock.MatchedBy(func(task *models.Task) bool { return task.Completed })).Return(nil)

		task, err := tracker.ResolveOverdue(ctx, 2, OverdueComplete)

		require.NoError(t, err)
		assert.True(t, task.Completed)
		assert.True(t, tracker.IsHandled(2))
	})

	t.Run("reschedule keeps the task unhandled", func(t *testing.T) {
		store := new(MockStore)
		tracker := NewOverdueTracker(newTestTaskService(store, new(MockScheduler)))

		store.On("GetTask", ctx, int64(2)).Return(&models.Task{ID: 2}, nil)

		task, err := tracker.ResolveOverdue(ctx, 2, OverdueReschedule)

		require.NoError(t, err)
		assert.Equal(t, int64(2), task.ID)
		assert.False(t, tracker.IsHandled(2))
	})

	t.Run("invalid action", func(t *testing.T) {
		tracker := NewOverdueTracker(newTestTaskService(new(MockStore), new(MockScheduler)))

		_, err := tracker.ResolveOverdue(ctx, 2, "postpone")

		assert.ErrorIs(t, err, ErrInvalidAction)
	})
}

func TestOverdueTracker_NextOverdueNone(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	tracker := NewOverdueTracker(newTestTaskService(store, new(MockScheduler)))

	store.On("ListTasks", ctx).Return([]models.Task{{ID: 1, Date: "2026-03-01", Time: "10:00"}}, nil)

	next, err := tracker.NextOverdue(ctx)

	require.NoError(t, err)
	assert.Nil(t, next)
}
