package engine

import (
	"errors"
	"strings"
)

// Ошибки валидации Workflow.
var (
	// ErrEmptyWorkflow: workflow не содержит шагов.
	ErrEmptyWorkflow = errors.New("workflow has no nodes")

	// ErrEmptyNodeID: шаг не имеет ID.
	ErrEmptyNodeID = errors.New("node has empty ID")

	// ErrDuplicateNodeID: несколько шагов с одинаковым ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrEmptyNodeType: шаг не имеет типа.
	ErrEmptyNodeType = errors.New("node has empty type")

	// ErrInvalidNodeID: ID содержит символы, ломающие ссылки {{id.path}}.
	ErrInvalidNodeID = errors.New("invalid node ID")

	// ErrCyclicDependency: обнаружен цикл в зависимостях.
	ErrCyclicDependency = errors.New("cyclic dependency detected")
)

// CycleError сообщает, что граф не является DAG.
type CycleError struct {
	// Blocked это узлы, которые не удалось упорядочить (в порядке объявления).
	Blocked []string
}

// Error реализует интерфейс error.
func (e *CycleError) Error() string {
	if len(e.Blocked) == 0 {
		return ErrCyclicDependency.Error()
	}
	return ErrCyclicDependency.Error() + ": " + strings.Join(e.Blocked, ", ")
}

// Unwrap возвращает базовую ошибку.
func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// ValidationError это ошибка валидации с контекстом.
type ValidationError struct {
	NodeID  string // ID шага, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.NodeID != "" {
		return "node " + e.NodeID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(nodeID, field, message string, err error) *ValidationError {
	return &ValidationError{
		NodeID:  nodeID,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
