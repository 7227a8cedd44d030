package storage

import (
	"context"
	"endify/models"
	"errors"
)

// ErrNotFound is returned when a task id does not exist in the backend
var ErrNotFound = errors.New("task not found")

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Provider is the interface for all task storage backends
// It abstracts operations on tasks and persisted preferences
type Provider interface {
	// ==================== TASK OPERATIONS ====================

	// ListTasks returns every stored task ordered by id
	ListTasks(ctx context.Context) ([]models.Task, error)

	// GetTask returns a single task or ErrNotFound
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// CreateTask stores a new task and assigns its ID
	CreateTask(ctx context.Context, task *models.Task) error

	// UpdateTask replaces all fields of an existing task
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes a task
	DeleteTask(ctx context.Context, id int64) error

	// ==================== PREFERENCE OPERATIONS ====================

	// GetPreference returns the stored value and whether it exists
	GetPreference(ctx context.Context, key string) (string, bool, error)

	// SetPreference stores a value, overwriting any previous one
	SetPreference(ctx context.Context, key, value string) error

	Close() error
}
