package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/mq"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/orchestrator"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/repo"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/variables"
)

const (
	defaultPrefetch    = 10
	defaultConcurrency = 1
)

// RunStore хранит runs. Реализуется repo.RunRepo.
type RunStore interface {
	orchestrator.RunRecorder
	Save(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
}

// Worker выполняет workflow из очереди runs.requested.
//
// Каждый запрос выполняется отдельным Orchestrator'ом со своим Store,
// поэтому несколько consumer'ов могут работать параллельно.
type Worker struct {
	conn     *mq.Connection
	runs     RunStore
	notifier orchestrator.RunNotifier

	executor  orchestrator.StepExecutor
	extractor *variables.Extractor
	markers   []string

	prefetch    int
	concurrency int

	logger *slog.Logger

	mu        sync.Mutex
	consumers []*mq.Consumer
	stopped   bool
}

// Config это конфигурация Worker.
type Config struct {
	// Conn нужен только для Start. processRequest работает без него.
	Conn *mq.Connection

	// Runs хранит историю (опционально).
	Runs RunStore

	// Notifier публикует run.finished (опционально, обычно mq.Publisher).
	Notifier orchestrator.RunNotifier

	Executor    orchestrator.StepExecutor
	Extractor   *variables.Extractor
	MarkerTypes []string

	Prefetch    int
	Concurrency int

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = variables.NewExtractor()
	}

	return &Worker{
		conn:        cfg.Conn,
		runs:        cfg.Runs,
		notifier:    cfg.Notifier,
		executor:    cfg.Executor,
		extractor:   extractor,
		markers:     cfg.MarkerTypes,
		prefetch:    prefetch,
		concurrency: concurrency,
		logger:      logger.With("component", "worker"),
	}
}

// Start запускает consumer'ы и блокируется до отмены ctx или Stop.
func (w *Worker) Start(ctx context.Context) error {
	if w.conn == nil {
		return fmt.Errorf("start worker: no amqp connection")
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWorkerStopped
	}
	for i := 0; i < w.concurrency; i++ {
		w.consumers = append(w.consumers, mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    mq.QueueRunsRequested,
			Handler:  w.handleRunRequested,
			Prefetch: w.prefetch,
		}))
	}
	consumers := w.consumers
	w.mu.Unlock()

	w.logger.Info("starting worker", "concurrency", w.concurrency, "prefetch", w.prefetch)

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range consumers {
		c := c
		g.Go(func() error {
			return c.Start(gctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	w.logger.Info("worker stopped")
	return err
}

// Stop останавливает consumer'ы. Текущие runs доходят до конца своего шага.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	for _, c := range w.consumers {
		c.Stop()
	}
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// handleRunRequested обрабатывает сообщение run.requested.
func (w *Worker) handleRunRequested(ctx context.Context, msg *mq.Message) error {
	if msg.Type != mq.MessageTypeRunRequested {
		return mq.Permanent(fmt.Errorf("%w: unexpected message type %s", ErrInvalidRequest, msg.Type))
	}

	payload, err := mq.ParsePayload[mq.RunRequestedPayload](msg)
	if err != nil {
		return mq.Permanent(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	_, err = w.processRequest(ctx, payload)
	switch {
	case errors.Is(err, ErrRunAlreadyFinished):
		// повторная доставка, подтверждаем
		w.logger.Info("skipping finished run", "run_id", payload.RunID)
		return nil
	case errors.Is(err, ErrInvalidRequest):
		return mq.Permanent(err)
	default:
		return err
	}
}

// processRequest проверяет workflow и выполняет его.
//
// Ошибка означает, что run не был выполнен. Упавший run это не ошибка:
// его статус failed записан в сам run.
func (w *Worker) processRequest(ctx context.Context, payload mq.RunRequestedPayload) (*domain.Run, error) {
	wf := &payload.Workflow

	if err := loader.ValidateDocument(wf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := engine.Validate(wf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	run := domain.NewRun(wf.ID)
	if payload.RunID != uuid.Nil {
		run.ID = payload.RunID
	}

	logger := w.logger.With("run_id", run.ID, "workflow_id", wf.ID)

	if w.runs != nil {
		existing, err := w.runs.GetByID(ctx, run.ID)
		switch {
		case err == nil && existing.IsFinished():
			return existing, fmt.Errorf("%w: %s", ErrRunAlreadyFinished, run.ID)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("get run: %w", err)
		}

		// run виден в истории ещё до начала выполнения
		if err := w.runs.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("save pending run: %w", err)
		}
	}

	// новый Orchestrator на каждый run: свой Store
	orch := orchestrator.New(orchestrator.Config{
		Executor:    w.executor,
		Extractor:   w.extractor,
		MarkerTypes: w.markers,
		Recorder:    w.runs,
		Notifier:    w.notifier,
		Logger:      logger,
	})
	if _, err := orch.Run(ctx, wf, run); err != nil {
		return run, fmt.Errorf("run workflow: %w", err)
	}

	logger.Info("run processed", "status", run.Status, "steps", len(run.Results))
	return run, nil
}
