package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// ErrDuplicateEntry: запись с таким именем уже добавлена.
var ErrDuplicateEntry = errors.New("duplicate schedule entry")

// Entry это workflow, запускаемый по расписанию.
type Entry struct {
	// Name уникален внутри Scheduler (обычно ID workflow).
	Name string

	// Expr это cron-выражение или дескриптор (@every 1m).
	Expr string

	// Timezone это IANA имя, по умолчанию UTC.
	Timezone string

	Workflow *domain.Workflow
}

// Trigger запускает workflow: локально или через очередь.
type Trigger interface {
	Trigger(ctx context.Context, entry Entry) error
}

// TriggerFunc позволяет использовать функцию как Trigger.
type TriggerFunc func(ctx context.Context, entry Entry) error

func (f TriggerFunc) Trigger(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// EntryStatus это состояние записи для вывода.
type EntryStatus struct {
	Name string
	Expr string
	Next time.Time
	Prev time.Time
}

// Scheduler запускает workflow по cron-расписанию.
//
// Запуски одной записи не пересекаются: если предыдущий ещё идёт,
// очередной пропускается.
type Scheduler struct {
	cron    *cron.Cron
	trigger Trigger
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
	specs   map[string]Entry

	baseCtx context.Context
	cancel  context.CancelFunc
}

// Config это конфигурация Scheduler.
type Config struct {
	Trigger Trigger
	Logger  *slog.Logger
}

// New создаёт Scheduler. Записи добавляются через Add.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scheduler")

	cronLogger := slogCronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		trigger: cfg.Trigger,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
		specs:   make(map[string]Entry),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Add регистрирует запись.
func (s *Scheduler) Add(entry Entry) error {
	if entry.Workflow == nil {
		return fmt.Errorf("schedule %s: nil workflow", entry.Name)
	}
	if entry.Name == "" {
		entry.Name = entry.Workflow.ID
	}

	schedule, err := ParseSchedule(entry.Expr, entry.Timezone)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", entry.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.Name)
	}

	id := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.fire(s.baseCtx, entry)
	}))
	s.entries[entry.Name] = id
	s.specs[entry.Name] = entry

	s.logger.Info("schedule added", "name", entry.Name, "expr", entry.Expr, "timezone", entry.Timezone)
	return nil
}

// Remove удаляет запись. Возвращает false, если записи нет.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	delete(s.specs, name)
	return true
}

// Entries возвращает состояние всех записей.
func (s *Scheduler) Entries() []EntryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EntryStatus, 0, len(s.entries))
	for name, id := range s.entries {
		e := s.cron.Entry(id)
		out = append(out, EntryStatus{
			Name: name,
			Expr: s.specs[name].Expr,
			Next: e.Next,
			Prev: e.Prev,
		})
	}
	return out
}

// Start запускает cron в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop останавливает cron и ждёт завершения запущенных задач или отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.cancel()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		// прерываем выполняющиеся runs
		s.cancel()
		return ctx.Err()
	}
}

// fire запускает одну запись.
func (s *Scheduler) fire(ctx context.Context, entry Entry) {
	start := time.Now()
	logger := s.logger.With("name", entry.Name)

	if s.trigger == nil {
		logger.Warn("no trigger configured, skipping")
		return
	}

	if err := s.trigger.Trigger(ctx, entry); err != nil {
		logger.Error("scheduled run failed to start", "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("scheduled run triggered", "duration", time.Since(start))
}

// slogCronLogger реализует cron.Logger поверх slog.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
