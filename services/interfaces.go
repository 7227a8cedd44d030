package services

import (
	"context"
	"endify/models"
	"endify/reminder"
)

// TaskStore defines the task operations a storage backend provides
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// PreferenceStore defines key/value persistence for user preferences
type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
}

// ReminderScheduler schedules and cancels task reminders
type ReminderScheduler interface {
	Schedule(ctx context.Context, r reminder.Reminder) error
	Cancel(ctx context.Context, taskID int64) error
	Purge(ctx context.Context, taskID int64) error
	Pending() []reminder.Reminder
}

// ReminderInbox holds reminders that were already delivered
type ReminderInbox interface {
	List() []reminder.Reminder
	Remove(taskID int64)
}
