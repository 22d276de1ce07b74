package domain

// RunStatus это статус выполнения run.
//
// Жизненный цикл:
//
//	pending → running → completed
//	                  ↘ failed
type RunStatus string

const (
	// RunStatusPending: run создан, но ещё не начал выполняться.
	RunStatusPending RunStatus = "pending"

	// RunStatusRunning: run в процессе выполнения.
	RunStatusRunning RunStatus = "running"

	// RunStatusCompleted: все шаги выполнены успешно.
	RunStatusCompleted RunStatus = "completed"

	// RunStatusFailed: run остановлен на первой ошибке (или граф содержит цикл).
	RunStatusFailed RunStatus = "failed"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// StepStatus это результат выполнения одного шага.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusError   StepStatus = "error"
)
