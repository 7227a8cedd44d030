package services

import (
	"context"
	"endify/models"
	"endify/reminder"
	"errors"
)

const (
	ReminderComplete   = "complete"
	ReminderReschedule = "reschedule"
	ReminderDismiss    = "dismiss"
)

// ReminderService exposes pending and delivered reminders and applies the
// actions a user takes on a delivered one
type ReminderService struct {
	tasks     *TaskService
	scheduler ReminderScheduler
	inbox     ReminderInbox
}

// NewReminderService creates a new reminder service
func NewReminderService(tasks *TaskService, scheduler ReminderScheduler, inbox ReminderInbox) *ReminderService {
	return &ReminderService{
		tasks:     tasks,
		scheduler: scheduler,
		inbox:     inbox,
	}
}

// Pending returns reminders that have not fired yet
func (rs *ReminderService) Pending() []reminder.Reminder {
	if rs.scheduler == nil {
		return []reminder.Reminder{}
	}
	return rs.scheduler.Pending()
}

// Delivered returns reminders that already fired and are still unanswered
func (rs *ReminderService) Delivered() []reminder.Reminder {
	if rs.inbox == nil {
		return []reminder.Reminder{}
	}
	return rs.inbox.List()
}

// HandleAction applies action to the task behind a delivered reminder.
// Completed tasks are returned unchanged; reschedule and dismiss only
// clear the reminder from the inbox.
func (rs *ReminderService) HandleAction(ctx context.Context, taskID int64, action string) (*models.Task, error) {
	switch action {
	case ReminderComplete, ReminderReschedule, ReminderDismiss:
	default:
		return nil, ErrInvalidAction
	}

	if rs.inbox != nil {
		rs.inbox.Remove(taskID)
	}

	task, err := rs.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			rs.tasks.logger.Info("reminder action for missing task ignored", "task_id", taskID, "action", action)
		}
		return nil, err
	}

	if task.Completed {
		return task, nil
	}

	if action == ReminderComplete {
		return rs.tasks.SetCompleted(ctx, taskID, true)
	}

	rs.tasks.logger.Info("reminder handled", "task_id", taskID, "action", action)
	return task, nil
}
