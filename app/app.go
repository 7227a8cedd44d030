package app

import (
	"endify/reminder"
	"endify/services"
	"endify/storage"
	"endify/validator"
	"log/slog"
	"time"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Store       storage.Provider
	Scheduler   *reminder.Scheduler
	Tasks       *services.TaskService
	Reminders   *services.ReminderService
	Overdue     *services.OverdueTracker
	Preferences *services.PreferenceService
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies.
// scheduler and inbox may be nil, in which case no reminders are kept.
func New(store storage.Provider, scheduler *reminder.Scheduler, inbox *reminder.Inbox, loc *time.Location, logger *slog.Logger) *App {
	var reminders services.ReminderScheduler
	if scheduler != nil {
		reminders = scheduler
	}
	var delivered services.ReminderInbox
	if inbox != nil {
		delivered = inbox
	}

	tasks := services.NewTaskService(store, reminders, loc, logger)

	return &App{
		Store:       store,
		Scheduler:   scheduler,
		Tasks:       tasks,
		Reminders:   services.NewReminderService(tasks, reminders, delivered),
		Overdue:     services.NewOverdueTracker(tasks),
		Preferences: services.NewPreferenceService(store, logger),
		Validator:   validator.New(),
		Logger:      logger,
	}
}
