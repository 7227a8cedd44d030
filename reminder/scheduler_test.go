package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

type MockNotifier struct {
	mock.Mock
}

var _ Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, r Reminder) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockMirror struct {
	mock.Mock
}

var _ Mirror = (*MockMirror)(nil)

func (m *MockMirror) Scheduled(ctx context.Context, r Reminder) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockMirror) Cancelled(ctx context.Context, taskID int64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// ==================== TESTS ====================

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// delivered reports whether the inbox holds a reminder for taskID
func delivered(inbox *Inbox, taskID int64) bool {
	for _, r := range inbox.List() {
		if r.TaskID == taskID {
			return true
		}
	}
	return false
}

func newTestScheduler(notifier Notifier, mirror Mirror, now time.Time) *Scheduler {
	s := NewScheduler(notifier, mirror, time.Minute, quietLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestScheduler_ScheduleReplacesPending(t *testing.T) {
	now := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	s := newTestScheduler(nil, nil, now)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 1, Title: "first", At: now.Add(time.Hour)}))
	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 1, Title: "moved", At: now.Add(2 * time.Hour)}))
	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 2, Title: "other", At: now.Add(30 * time.Minute)}))

	pending := s.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(2), pending[0].TaskID)
	assert.Equal(t, "moved", pending[1].Title)
}

func TestScheduler_Cancel(t *testing.T) {
	now := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	mirror := new(MockMirror)
	s := newTestScheduler(nil, mirror, now)
	ctx := context.Background()

	r := Reminder{TaskID: 7, At: now.Add(time.Hour)}
	mirror.On("Scheduled", ctx, r).Return(nil).Once()
	mirror.On("Cancelled", ctx, int64(7)).Return(nil).Once()

	require.NoError(t, s.Schedule(ctx, r))
	require.NoError(t, s.Cancel(ctx, 7))
	assert.Empty(t, s.Pending())

	// Cancelling again does not reach the mirror
	require.NoError(t, s.Cancel(ctx, 7))

	mirror.AssertExpectations(t)
}

func TestScheduler_DispatchDue(t *testing.T) {
	now := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	notifier := new(MockNotifier)
	s := newTestScheduler(notifier, nil, now)
	ctx := context.Background()

	due := Reminder{TaskID: 1, Title: "due", At: now}
	late := Reminder{TaskID: 2, Title: "late", At: now.Add(-time.Minute)}
	future := Reminder{TaskID: 3, Title: "future", At: now.Add(time.Minute)}
	for _, r := range []Reminder{due, late, future} {
		require.NoError(t, s.Schedule(ctx, r))
	}

	notifier.On("Notify", ctx, late).Return(nil).Once()
	notifier.On("Notify", ctx, due).Return(errors.New("delivery failed")).Once()

	delivered := s.DispatchDue(ctx)

	assert.Equal(t, 2, delivered)
	pending := s.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].TaskID)
	notifier.AssertExpectations(t)
}

func TestScheduler_DispatchDueSkipsStale(t *testing.T) {
	now := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	inbox := NewInbox(10)
	s := newTestScheduler(inbox, nil, now)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 1, At: now}))
	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 2, At: now}))

	// Task 2 was completed elsewhere after its reminder was scheduled
	s.SetCheck(func(ctx context.Context, r Reminder) bool { return r.TaskID != 2 })

	assert.Equal(t, 1, s.DispatchDue(ctx))
	assert.True(t, delivered(inbox, 1))
	assert.False(t, delivered(inbox, 2))
	assert.Empty(t, s.Pending())
}

func TestScheduler_PurgeAlwaysReachesMirror(t *testing.T) {
	now := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	mirror := new(MockMirror)
	s := newTestScheduler(nil, mirror, now)
	ctx := context.Background()

	// Nothing pending, the reminder already fired
	mirror.On("Cancelled", ctx, int64(4)).Return(nil).Once()

	require.NoError(t, s.Purge(ctx, 4))
	mirror.AssertExpectations(t)
}

func TestScheduler_StartStop(t *testing.T) {
	inbox := NewInbox(10)
	s := NewScheduler(inbox, nil, 10*time.Millisecond, quietLogger())
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, Reminder{TaskID: 5, Title: "now", At: time.Now().Add(-time.Second)}))

	s.Start()
	s.Start()

	assert.Eventually(t, func() bool {
		return delivered(inbox, 5)
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestInbox(t *testing.T) {
	inbox := NewInbox(2)
	ctx := context.Background()

	require.NoError(t, inbox.Notify(ctx, Reminder{TaskID: 1}))
	require.NoError(t, inbox.Notify(ctx, Reminder{TaskID: 2}))
	require.NoError(t, inbox.Notify(ctx, Reminder{TaskID: 3}))

	items := inbox.List()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].TaskID)
	assert.Equal(t, int64(3), items[1].TaskID)

	// Redelivery for the same task keeps a single entry
	require.NoError(t, inbox.Notify(ctx, Reminder{TaskID: 2, Title: "again"}))
	items = inbox.List()
	require.Len(t, items, 2)
	assert.Equal(t, "again", items[1].Title)

	inbox.Remove(2)
	assert.False(t, delivered(inbox, 2))
}

func TestNotifiers_JoinsErrors(t *testing.T) {
	ctx := context.Background()
	r := Reminder{TaskID: 9}

	failing := new(MockNotifier)
	failing.On("Notify", ctx, r).Return(errors.New("boom"))
	inbox := NewInbox(5)

	err := Notifiers{failing, inbox, LogNotifier{Logger: quietLogger()}}.Notify(ctx, r)

	assert.EqualError(t, err, "boom")
	assert.True(t, delivered(inbox, 9))
}
