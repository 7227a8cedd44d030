package services

import (
	"context"
	"endify/models"
	"sort"
	"sync"
	"time"
)

const (
	OverdueComplete   = "complete"
	OverdueReschedule = "reschedule"
	OverdueIgnore     = "ignore"
)

// OverdueTracker finds overdue tasks and remembers which ones the user has
// already dealt with during this process
type OverdueTracker struct {
	tasks *TaskService

	mu      sync.Mutex
	handled map[int64]bool
}

// NewOverdueTracker creates a new overdue tracker
func NewOverdueTracker(tasks *TaskService) *OverdueTracker {
	return &OverdueTracker{
		tasks:   tasks,
		handled: make(map[int64]bool),
	}
}

// Overdue lists every pending task whose due time has passed, oldest first
func (ot *OverdueTracker) Overdue(ctx context.Context) ([]models.Task, error) {
	all, err := ot.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	now := ot.tasks.now()
	loc := ot.tasks.loc

	type entry struct {
		task models.Task
		due  time.Time
	}
	entries := make([]entry, 0)
	for _, task := range all {
		if !task.IsOverdue(now, loc) {
			continue
		}
		due, _ := task.DueAt(loc)
		entries = append(entries, entry{task: task, due: due})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].due.Equal(entries[j].due) {
			return entries[i].task.ID < entries[j].task.ID
		}
		return entries[i].due.Before(entries[j].due)
	})

	overdue := make([]models.Task, len(entries))
	for i, e := range entries {
		overdue[i] = e.task
	}
	return overdue, nil
}

// NextOverdue returns the oldest overdue task not handled yet, or nil
func (ot *OverdueTracker) NextOverdue(ctx context.Context) (*models.Task, error) {
	overdue, err := ot.Overdue(ctx)
	if err != nil {
		return nil, err
	}

	ot.mu.Lock()
	defer ot.mu.Unlock()

	for i := range overdue {
		if !ot.handled[overdue[i].ID] {
			return &overdue[i], nil
		}
	}
	return nil, nil
}

// ResolveOverdue applies the user's choice for an overdue task. Reschedule leaves
// the task unhandled so it is offered again until its date changes.
func (ot *OverdueTracker) ResolveOverdue(ctx context.Context, id int64, action string) (*models.Task, error) {
	switch action {
	case OverdueComplete:
		task, err := ot.tasks.SetCompleted(ctx, id, true)
		if err != nil {
			return nil, err
		}
		ot.markHandled(id)
		return task, nil

	case OverdueIgnore:
		task, err := ot.tasks.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		ot.markHandled(id)
		return task, nil

	case OverdueReschedule:
		return ot.tasks.Get(ctx, id)

	default:
		return nil, ErrInvalidAction
	}
}

// IsHandled reports whether the overdue prompt for id was already answered
func (ot *OverdueTracker) IsHandled(id int64) bool {
	ot.mu.Lock()
	defer ot.mu.Unlock()
	return ot.handled[id]
}

func (ot *OverdueTracker) markHandled(id int64) {
	ot.mu.Lock()
	ot.handled[id] = true
	ot.mu.Unlock()
}
