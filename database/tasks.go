package database

import (
	"context"
	"database/sql"
	"endify/models"
	"endify/storage"
	"errors"
	"fmt"
	"time"
)

// ==================== TASK OPERATIONS ====================

const taskColumns = `id, name, subject, teacher, date, time, color, completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var completed int
	if err := row.Scan(
		&task.ID, &task.Name, &task.Subject, &task.Teacher,
		&task.Date, &task.Time, &task.Color, &completed,
		&task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Completed = completed == 1
	return &task, nil
}

// ListTasks retrieves all tasks ordered by id
func (r *Repository) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// GetTask retrieves a task by id
func (r *Repository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask inserts a task and assigns the rowid as its ID
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (name, subject, teacher, date, time, color, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.Name, task.Subject, task.Teacher, task.Date, task.Time,
		task.Color, boolToInt(task.Completed), task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	task.ID = id
	return nil
}

// UpdateTask replaces every mutable field of a task
func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET
			name = ?,
			subject = ?,
			teacher = ?,
			date = ?,
			time = ?,
			color = ?,
			completed = ?,
			updated_at = ?
		WHERE id = ?
	`,
		task.Name, task.Subject, task.Teacher, task.Date, task.Time,
		task.Color, boolToInt(task.Completed), task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return requireAffected(result)
}

// DeleteTask permanently removes a task
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
