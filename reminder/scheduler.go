package reminder

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Scheduler holds pending reminders and delivers them when they come due.
// Reminders live in memory; the task service re-schedules them on startup.
type Scheduler struct {
	notifier Notifier
	mirror   Mirror
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	check    func(ctx context.Context, r Reminder) bool

	mu       sync.Mutex
	pending  map[int64]Reminder
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler creates a scheduler; mirror may be nil
func NewScheduler(notifier Notifier, mirror Mirror, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		notifier: notifier,
		mirror:   mirror,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		pending:  make(map[int64]Reminder),
	}
}

// Schedule registers r, replacing any pending reminder for the same task
func (s *Scheduler) Schedule(ctx context.Context, r Reminder) error {
	s.mu.Lock()
	s.pending[r.TaskID] = r
	s.mu.Unlock()

	s.logger.Debug("reminder scheduled", "task_id", r.TaskID, "at", r.At)

	if s.mirror != nil {
		return s.mirror.Scheduled(ctx, r)
	}
	return nil
}

// Cancel drops the pending reminder for a task; unknown ids are ignored
func (s *Scheduler) Cancel(ctx context.Context, taskID int64) error {
	s.mu.Lock()
	_, existed := s.pending[taskID]
	delete(s.pending, taskID)
	s.mu.Unlock()

	if !existed {
		return nil
	}

	s.logger.Debug("reminder cancelled", "task_id", taskID)

	if s.mirror != nil {
		return s.mirror.Cancelled(ctx, taskID)
	}
	return nil
}

// Purge drops any pending reminder for a task and always tells the mirror,
// so a reminder that already fired loses its calendar event too
func (s *Scheduler) Purge(ctx context.Context, taskID int64) error {
	s.mu.Lock()
	delete(s.pending, taskID)
	s.mu.Unlock()

	s.logger.Debug("reminder purged", "task_id", taskID)

	if s.mirror != nil {
		return s.mirror.Cancelled(ctx, taskID)
	}
	return nil
}

// SetCheck installs a function consulted right before delivery; reminders
// it rejects are dropped. Call it before Start.
func (s *Scheduler) SetCheck(check func(ctx context.Context, r Reminder) bool) {
	s.mu.Lock()
	s.check = check
	s.mu.Unlock()
}

// Pending returns the scheduled reminders ordered by trigger time
func (s *Scheduler) Pending() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := make([]Reminder, 0, len(s.pending))
	for _, r := range s.pending {
		reminders = append(reminders, r)
	}
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].At.Equal(reminders[j].At) {
			return reminders[i].TaskID < reminders[j].TaskID
		}
		return reminders[i].At.Before(reminders[j].At)
	})
	return reminders
}

// Start begins the background delivery loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("reminder scheduler started", "interval", s.interval)

	go s.run()
}

// Stop halts the delivery loop and waits for it to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.DispatchDue(context.Background())

	for {
		select {
		case <-ticker.C:
			s.DispatchDue(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// DispatchDue delivers every reminder whose time is not after now and
// returns how many were delivered
func (s *Scheduler) DispatchDue(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var due []Reminder
	for id, r := range s.pending {
		if !r.At.After(now) {
			due = append(due, r)
			delete(s.pending, id)
		}
	}
	check := s.check
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })

	delivered := 0
	for _, r := range due {
		if check != nil && !check(ctx, r) {
			s.logger.Info("stale reminder dropped", "task_id", r.TaskID, "at", r.At)
			continue
		}
		delivered++
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, r); err != nil {
			s.logger.Error("failed to deliver reminder", "task_id", r.TaskID, "error", err)
		}
	}

	return delivered
}
