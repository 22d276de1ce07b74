package worker

import "errors"

// Ошибки воркера.
var (
	// ErrRunAlreadyFinished: run с этим ID уже выполнен (повторная доставка).
	ErrRunAlreadyFinished = errors.New("run already finished")

	// ErrInvalidRequest: запрос не содержит корректного workflow.
	ErrInvalidRequest = errors.New("invalid run request")

	// ErrWorkerStopped: воркер остановлен.
	ErrWorkerStopped = errors.New("worker stopped")
)
