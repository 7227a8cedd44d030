package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Reminder is a notification pending for a task, identified by the task id
type Reminder struct {
	TaskID int64     `json:"task_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	At     time.Time `json:"at"`
}

// Notifier delivers a reminder once its time has come
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Mirror is told about every schedule and cancel so an external calendar
// can carry the same reminders
type Mirror interface {
	Scheduled(ctx context.Context, r Reminder) error
	Cancelled(ctx context.Context, taskID int64) error
}

// ==================== NOTIFIERS ====================

// Notifiers fans a reminder out to every notifier, joining their errors
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, r Reminder) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes delivered reminders to the structured log
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(ctx context.Context, r Reminder) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, r.Title, "task_id", r.TaskID, "body", r.Body, "due", r.At)
	return nil
}

// Inbox keeps the most recent delivered reminders until they are acted on
type Inbox struct {
	mu    sync.Mutex
	items []Reminder
	limit int
}

func NewInbox(limit int) *Inbox {
	if limit < 1 {
		limit = 50
	}
	return &Inbox{limit: limit}
}

func (i *Inbox) Notify(ctx context.Context, r Reminder) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(r.TaskID)
	i.items = append(i.items, r)
	if len(i.items) > i.limit {
		i.items = i.items[len(i.items)-i.limit:]
	}
	return nil
}

// List returns delivered reminders, oldest first
func (i *Inbox) List() []Reminder {
	i.mu.Lock()
	defer i.mu.Unlock()

	items := make([]Reminder, len(i.items))
	copy(items, i.items)
	return items
}

// Remove drops the reminder for a task
func (i *Inbox) Remove(taskID int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removeLocked(taskID)
}

func (i *Inbox) removeLocked(taskID int64) {
	kept := i.items[:0]
	for _, r := range i.items {
		if r.TaskID != taskID {
			kept = append(kept, r)
		}
	}
	i.items = kept
}
