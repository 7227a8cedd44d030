package services

import (
	"context"
	"endify/models"
	"endify/reminder"
	"endify/storage"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TaskService handles business logic for tasks and keeps reminders in step
// with what is stored
type TaskService struct {
	store     TaskStore
	reminders ReminderScheduler
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(store TaskStore, reminders ReminderScheduler, loc *time.Location, logger *slog.Logger) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		store:     store,
		reminders: reminders,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// Load reads every task, schedules reminders for the pending ones and
// reports the first overdue task
func (ts *TaskService) Load(ctx context.Context) ([]models.Task, error) {
	tasks, err := ts.store.ListTasks(ctx)
	if err != nil {
		ts.logger.Error("failed to load tasks", "error", err)
		return nil, err
	}

	for _, task := range tasks {
		ts.scheduleReminder(ctx, task)
	}

	now := ts.now()
	for _, task := range tasks {
		if task.IsOverdue(now, ts.loc) {
			ts.logger.Warn("overdue task", "task_id", task.ID, "name", task.Name, "date", task.Date, "time", task.Time)
			break
		}
	}

	ts.logger.Info("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// List returns every task
func (ts *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return ts.store.ListTasks(ctx)
}

// Search filters tasks whose name, subject or teacher contains query,
// ignoring case. An empty query matches everything.
func (ts *TaskService) Search(ctx context.Context, query string) ([]models.Task, error) {
	tasks, err := ts.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tasks, nil
	}

	matches := make([]models.Task, 0)
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Name), query) ||
			strings.Contains(strings.ToLower(task.Subject), query) ||
			strings.Contains(strings.ToLower(task.Teacher), query) {
			matches = append(matches, task)
		}
	}
	return matches, nil
}

// Get retrieves a task by id
func (ts *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := ts.store.GetTask(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return task, nil
}

// Create stores a new pending task and schedules its reminder
func (ts *TaskService) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		Name:      strings.TrimSpace(req.Name),
		Subject:   strings.TrimSpace(req.Subject),
		Teacher:   strings.TrimSpace(req.Teacher),
		Date:      req.Date,
		Time:      req.Time,
		Color:     normalizeColor(req.Color),
		Completed: false,
	}

	if err := ts.store.CreateTask(ctx, task); err != nil {
		ts.logger.Error("failed to create task", "name", task.Name, "error", err)
		return nil, err
	}

	ts.scheduleReminder(ctx, *task)
	return task, nil
}

// Update replaces the editable fields of a task
func (ts *TaskService) Update(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	task, err := ts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Name = strings.TrimSpace(req.Name)
	task.Subject = strings.TrimSpace(req.Subject)
	task.Teacher = strings.TrimSpace(req.Teacher)
	task.Date = req.Date
	task.Time = req.Time
	task.Color = normalizeColor(req.Color)
	task.Completed = req.Completed

	if err := ts.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetCompleted sets the completion flag of a task
func (ts *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (*models.Task, error) {
	task, err := ts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = completed
	if err := ts.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips the completion flag of a task
func (ts *TaskService) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	task, err := ts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := ts.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete purges the task's reminder, including a mirrored one that already
// fired, and removes the task
func (ts *TaskService) Delete(ctx context.Context, id int64) error {
	if ts.reminders != nil {
		if err := ts.reminders.Purge(ctx, id); err != nil {
			ts.logger.Error("failed to purge reminder", "task_id", id, "error", err)
		}
	}

	if err := ts.store.DeleteTask(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			ts.logger.Error("failed to delete task", "task_id", id, "error", err)
		}
		return translate(err)
	}
	return nil
}

// save persists a modified task; the reminder is cancelled first and only
// re-scheduled while the task is pending
func (ts *TaskService) save(ctx context.Context, task *models.Task) error {
	ts.cancelReminder(ctx, task.ID)

	if err := ts.store.UpdateTask(ctx, task); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			ts.logger.Error("failed to update task", "task_id", task.ID, "error", err)
		}
		return translate(err)
	}

	if !task.Completed {
		ts.scheduleReminder(ctx, *task)
	}
	return nil
}

// ==================== REMINDERS ====================

// reminderFor builds the reminder for a pending task due in the future
func (ts *TaskService) reminderFor(task models.Task) (reminder.Reminder, bool) {
	if task.Completed {
		return reminder.Reminder{}, false
	}

	due, err := task.DueAt(ts.loc)
	if err != nil {
		ts.logger.Warn("task has no valid due time", "task_id", task.ID, "error", err)
		return reminder.Reminder{}, false
	}
	if !due.After(ts.now()) {
		return reminder.Reminder{}, false
	}

	return reminder.Reminder{
		TaskID: task.ID,
		Title:  "Task due!",
		Body:   fmt.Sprintf("It's time to hand in %q (%s)", task.Name, task.Subject),
		At:     due,
	}, true
}

// StillDue reports whether r still matches its task: the task exists, is
// pending and keeps the same due time. Storage failures keep the reminder.
func (ts *TaskService) StillDue(ctx context.Context, r reminder.Reminder) bool {
	task, err := ts.store.GetTask(ctx, r.TaskID)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		ts.logger.Warn("could not re-check reminder task", "task_id", r.TaskID, "error", err)
		return true
	}
	if task.Completed {
		return false
	}
	due, err := task.DueAt(ts.loc)
	return err == nil && due.Equal(r.At)
}

// scheduleReminder is fire-and-forget: failures are only logged
func (ts *TaskService) scheduleReminder(ctx context.Context, task models.Task) {
	if ts.reminders == nil {
		return
	}
	r, ok := ts.reminderFor(task)
	if !ok {
		return
	}
	if err := ts.reminders.Schedule(ctx, r); err != nil {
		ts.logger.Error("failed to schedule reminder", "task_id", task.ID, "error", err)
	}
}

func (ts *TaskService) cancelReminder(ctx context.Context, id int64) {
	if ts.reminders == nil {
		return
	}
	if err := ts.reminders.Cancel(ctx, id); err != nil {
		ts.logger.Error("failed to cancel reminder", "task_id", id, "error", err)
	}
}

func normalizeColor(color string) string {
	if color == "" {
		return models.DefaultColor
	}
	for _, c := range models.Palette {
		if strings.EqualFold(c, color) {
			return c
		}
	}
	return color
}

func translate(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
