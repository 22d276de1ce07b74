package orchestrator

import (
	"errors"
	"fmt"
)

// Ошибки оркестратора.
var (
	// ErrNilWorkflow: Run вызван без workflow.
	ErrNilWorkflow = errors.New("workflow is nil")

	// ErrNilRun: Run вызван без run.
	ErrNilRun = errors.New("run is nil")

	// ErrRunNotPending: run не в статусе pending.
	ErrRunNotPending = errors.New("run is not in pending status")

	// ErrRunInProgress: orchestrator уже выполняет другой run.
	// Хранилище переменных принадлежит одному run, поэтому параллельные
	// run требуют отдельных Orchestrator.
	ErrRunInProgress = errors.New("orchestrator is already executing a run")

	// ErrExecutorPanic: executor шага запаниковал.
	ErrExecutorPanic = errors.New("step executor panicked")
)

// StepExecutionError это ошибка шага, остановившая run.
type StepExecutionError struct {
	NodeID   string
	NodeType string
	Err      error
}

// Error реализует интерфейс error.
func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.NodeType, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *StepExecutionError) Unwrap() error {
	return e.Err
}
