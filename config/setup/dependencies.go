package setup

import (
	"context"
	"endify/app"
	"endify/config"
	"endify/database"
	"endify/reminder"
	"endify/storage"
	"endify/storage/file"
	"fmt"
	"log/slog"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// OpenStorage opens the configured backend. When SQLite cannot be opened
// the JSON file store is used instead.
func OpenStorage(cfg *config.Config, logger *slog.Logger) (storage.Provider, error) {
	switch cfg.StorageBackend {
	case storage.BackendFile:
		return openFileStore(cfg.FallbackPath, logger)

	case storage.BackendSQLite, "":
		db, err := InitDatabase(cfg.DBPath, logger)
		if err != nil {
			logger.Error("sqlite unavailable, falling back to file storage",
				"db_path", cfg.DBPath,
				"fallback_path", cfg.FallbackPath,
				"error", err,
			)
			return openFileStore(cfg.FallbackPath, logger)
		}
		return database.NewRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openFileStore(path string, logger *slog.Logger) (storage.Provider, error) {
	store, err := file.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file storage: %w", err)
	}
	logger.Info("file storage initialized", "path", store.Path())
	return store, nil
}

// InitReminders builds the reminder scheduler with its notifiers and, when
// enabled, the Google Calendar mirror. The scheduler is not started.
func InitReminders(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*reminder.Scheduler, *reminder.Inbox) {
	inbox := reminder.NewInbox(50)
	notifiers := reminder.Notifiers{
		reminder.LogNotifier{Logger: logger},
		inbox,
	}

	var mirror reminder.Mirror
	if cfg.Calendar.Enabled {
		calendarMirror, err := reminder.ConnectCalendar(ctx, reminder.CalendarConfig{
			ClientID:     cfg.Calendar.ClientID,
			ClientSecret: cfg.Calendar.ClientSecret,
			TokenFile:    cfg.Calendar.TokenFile,
			CalendarID:   cfg.Calendar.CalendarID,
		}, logger)
		if err != nil {
			logger.Warn("google calendar mirror disabled", "error", err)
		} else {
			mirror = calendarMirror
			logger.Info("google calendar mirror enabled", "calendar_id", cfg.Calendar.CalendarID)
		}
	}

	return reminder.NewScheduler(notifiers, mirror, cfg.ReminderInterval, logger), inbox
}

// InitApp initializes the server application with all dependencies, loads
// the stored tasks and starts the reminder worker
func InitApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	store, err := OpenStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	scheduler, inbox := InitReminders(ctx, cfg, logger)

	application := app.New(store, scheduler, inbox, cfg.Location, logger)
	if _, err := application.Tasks.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	// Tasks may change behind the server's back through one-shot commands
	scheduler.SetCheck(application.Tasks.StillDue)
	scheduler.Start()
	logger.Info("reminder worker started", "interval", cfg.ReminderInterval)

	return application, nil
}

// InitCLI opens storage for one-shot commands. Reminders belong to the
// long-running server, so none are scheduled here.
func InitCLI(cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	store, err := OpenStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	return app.New(store, nil, nil, cfg.Location, logger), nil
}

// Shutdown performs graceful shutdown of all services
func Shutdown(application *app.App, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application.Scheduler != nil {
		application.Scheduler.Stop()
		logger.Info("reminder worker stopped")
	}

	if application.Store != nil {
		if err := application.Store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		} else {
			logger.Info("storage closed")
		}
	}
}
