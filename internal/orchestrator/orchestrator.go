package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/steps"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/telemetry"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/variables"
)

// DefaultMarkerTypes это типы шагов без внешнего эффекта.
var DefaultMarkerTypes = []string{"start", "end"}

// StepExecutor выполняет шаг заданного типа с готовой конфигурацией.
//
// Orchestrator не повторяет вызов и не ставит таймаут: отмена и таймауты
// остаются на стороне executor'а (через ctx).
type StepExecutor interface {
	Execute(ctx context.Context, stepType string, config value.Value) (value.Value, error)
}

// ExecutorFunc позволяет использовать функцию как StepExecutor.
type ExecutorFunc func(ctx context.Context, stepType string, config value.Value) (value.Value, error)

// Execute вызывает f.
func (f ExecutorFunc) Execute(ctx context.Context, stepType string, config value.Value) (value.Value, error) {
	return f(ctx, stepType, config)
}

// RunRecorder сохраняет завершённый run (например, repo.RunRepo).
type RunRecorder interface {
	SaveRun(ctx context.Context, run *domain.Run) error
}

// RunNotifier сообщает о завершённом run (например, mq.Publisher).
type RunNotifier interface {
	NotifyRunFinished(ctx context.Context, run *domain.Run) error
}

// Orchestrator выполняет run workflow.
//
// Шаги выполняются строго последовательно в порядке engine.Order.
// Перед каждым шагом в конфигурацию подставляются переменные из Store,
// после успешного шага его результат записывается в Store.
// Первая ошибка шага останавливает run (fail-fast).
//
// Orchestrator владеет одним Store и выполняет один run за раз.
type Orchestrator struct {
	executor  StepExecutor
	extractor *variables.Extractor
	store     *variables.Store
	markers   map[string]bool

	recorder RunRecorder
	notifier RunNotifier

	logger  *slog.Logger
	running atomic.Bool
}

// Config это конфигурация Orchestrator.
type Config struct {
	// Executor выполняет шаги (default: steps.DefaultRegistry).
	Executor StepExecutor

	// Extractor строит extracted data (default: variables.NewExtractor).
	Extractor *variables.Extractor

	// MarkerTypes это типы шагов, которые не вызывают executor (default: start, end).
	MarkerTypes []string

	// Recorder и Notifier вызываются после завершения run. Их ошибки
	// логируются и не меняют результат run.
	Recorder RunRecorder
	Notifier RunNotifier

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Orchestrator со своим хранилищем переменных.
func New(cfg Config) *Orchestrator {
	executor := cfg.Executor
	if executor == nil {
		executor = steps.DefaultRegistry(0)
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = variables.NewExtractor()
	}

	markerTypes := cfg.MarkerTypes
	if markerTypes == nil {
		markerTypes = DefaultMarkerTypes
	}
	markers := make(map[string]bool, len(markerTypes))
	for _, t := range markerTypes {
		markers[strings.ToLower(t)] = true
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		executor:  executor,
		extractor: extractor,
		store:     variables.NewStore(),
		markers:   markers,
		recorder:  cfg.Recorder,
		notifier:  cfg.Notifier,
		logger:    logger,
	}
}

// Store возвращает хранилище переменных текущего (или последнего) run.
func (o *Orchestrator) Store() *variables.Store {
	return o.store
}

// IsMarker проверяет, является ли тип маркером.
func (o *Orchestrator) IsMarker(stepType string) bool {
	return o.markers[strings.ToLower(stepType)]
}

// Execute создаёт новый run для workflow и выполняет его.
func (o *Orchestrator) Execute(ctx context.Context, wf *domain.Workflow) (*domain.Run, error) {
	if wf == nil {
		return nil, ErrNilWorkflow
	}
	return o.Run(ctx, wf, domain.NewRun(wf.ID))
}

// Run выполняет run в статусе pending.
//
// Результат run (completed или failed) записывается в сам run. Ошибка
// возвращается только при неправильном вызове: nil аргументы, run не pending
// или параллельный вызов на том же Orchestrator.
func (o *Orchestrator) Run(ctx context.Context, wf *domain.Workflow, run *domain.Run) (*domain.Run, error) {
	if wf == nil {
		return nil, ErrNilWorkflow
	}
	if run == nil {
		return nil, ErrNilRun
	}
	if run.Status != domain.RunStatusPending {
		return run, fmt.Errorf("%w: %s", ErrRunNotPending, run.Status)
	}
	if !o.running.CompareAndSwap(false, true) {
		return run, ErrRunInProgress
	}
	defer o.running.Store(false)

	logger := telemetry.WithRunID(o.logger, run.ID.String())
	if wf.ID != "" {
		logger = telemetry.WithWorkflowID(logger, wf.ID)
	}

	run.MarkRunning()
	o.store.Clear()

	order, err := engine.Order(wf.Nodes, wf.Edges)
	if err != nil {
		logger.Error("workflow graph cannot be ordered", "error", err)
		run.MarkFailed(err.Error())
		o.finish(ctx, run, logger)
		return run, nil
	}

	logger.Info("run started", "steps", len(order))

	index := wf.NodeIndex()
	for _, id := range order {
		node := index[id]

		result, err := o.executeNode(ctx, node, logger)
		if result != nil {
			run.AddResult(*result)
		}
		if err != nil {
			run.MarkFailed(err.Error())
			o.finish(ctx, run, logger)
			return run, nil
		}
	}

	results := make([]domain.StepResult, len(run.Results))
	copy(results, run.Results)

	run.MarkCompleted(&domain.RunOutput{
		StepCount: len(results),
		Duration:  time.Since(*run.StartedAt),
		Results:   results,
		Variables: o.store.Snapshot(),
	})
	o.finish(ctx, run, logger)

	return run, nil
}

// executeNode выполняет один шаг.
//
// Для маркера результат nil: он попадает в Store, но не в список результатов.
// Ошибка (*StepExecutionError) означает, что run нужно остановить.
func (o *Orchestrator) executeNode(ctx context.Context, node *domain.Node, logger *slog.Logger) (*domain.StepResult, error) {
	logger = telemetry.WithNodeID(logger, node.ID, node.Type)

	if o.IsMarker(node.Type) {
		o.store.Put(&domain.NodeOutput{
			NodeID:        node.ID,
			NodeType:      node.Type,
			Status:        domain.StepStatusSuccess,
			Data:          value.Map{"marker": value.String(node.Type)},
			ExtractedData: value.Map{},
			Timestamp:     time.Now(),
		})
		logger.Debug("marker step passed")
		return nil, nil
	}

	// Подстановка переменных: неразрешённые ссылки остаются как есть
	sub := variables.SubstituteConfig(node.Config, o.store)
	unresolved := make([]string, 0, len(sub.Unresolved))
	for _, u := range sub.Unresolved {
		unresolved = append(unresolved, u.Ref.Raw)
		logger.Warn("variable reference not resolved", "reference", u.Ref.Raw, "error", u.Err)
	}
	telemetry.AddUnresolved(len(unresolved))
	if len(unresolved) == 0 {
		unresolved = nil
	}

	logger.Debug("executing step")

	start := time.Now()
	output, err := o.dispatch(ctx, node.Type, sub.Config)
	duration := time.Since(start)

	result := &domain.StepResult{
		NodeID:      node.ID,
		NodeType:    node.Type,
		Input:       sub.Map(),
		Unresolved:  unresolved,
		Duration:    duration,
		CompletedAt: time.Now(),
	}

	if err != nil {
		stepErr := &StepExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
		result.Status = domain.StepStatusError
		result.Error = err.Error()

		telemetry.ObserveStep(node.Type, string(domain.StepStatusError), duration)
		logger.Error("step failed", "error", err, "duration", duration)
		return result, stepErr
	}

	if output == nil {
		output = value.Null{}
	}

	extraction := o.extractor.Extract(node.ID, node.Type, output)
	if extraction.Degraded() {
		telemetry.ObserveExtractionFailure(node.Type)
		logger.Warn("variable extraction failed", "error", extraction.Err)
	}

	result.Status = domain.StepStatusSuccess
	result.Output = output
	result.ExtractedData = extraction.Data

	o.store.Put(&domain.NodeOutput{
		NodeID:        node.ID,
		NodeType:      node.Type,
		Status:        domain.StepStatusSuccess,
		Data:          output,
		ExtractedData: extraction.Data,
		Timestamp:     result.CompletedAt,
		Duration:      duration,
	})

	telemetry.ObserveStep(node.Type, string(domain.StepStatusSuccess), duration)
	logger.Info("step completed", "duration", duration)

	return result, nil
}

// dispatch вызывает executor, превращая панику в ошибку шага.
func (o *Orchestrator) dispatch(ctx context.Context, stepType string, config value.Value) (output value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("%w: %v", ErrExecutorPanic, r)
		}
	}()

	return o.executor.Execute(ctx, stepType, config)
}

// finish фиксирует метрики и вызывает hooks завершённого run.
func (o *Orchestrator) finish(ctx context.Context, run *domain.Run, logger *slog.Logger) {
	telemetry.ObserveRun(string(run.Status), run.Duration())

	if run.Status == domain.RunStatusCompleted {
		logger.Info("run completed", "steps", len(run.Results), "duration", run.Duration())
	} else {
		logger.Error("run failed", "error", run.Error, "duration", run.Duration())
	}

	if o.recorder != nil {
		if err := o.recorder.SaveRun(ctx, run); err != nil {
			logger.Error("failed to save run", "error", err)
		}
	}

	if o.notifier != nil {
		if err := o.notifier.NotifyRunFinished(ctx, run); err != nil {
			logger.Error("failed to publish run result", "error", err)
		}
	}
}
