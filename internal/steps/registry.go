package steps

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Registry это реестр типов шагов.
//
// Позволяет регистрировать и получать реализации Step по типу.
// Тип сравнивается без учёта регистра. Потокобезопасен.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
	}
}

// DefaultRegistry создаёт реестр со всеми стандартными шагами.
// httpTimeout задаёт таймаут http шага по умолчанию (0 это 30s).
func DefaultRegistry(httpTimeout time.Duration) *Registry {
	r := NewRegistry()

	r.Register(NewDelayStep())
	r.Register(NewHTTPStep(httpTimeout))
	r.Register(NewTransformStep())

	return r
}

// Register регистрирует шаг в реестре.
// Если шаг с таким типом уже существует, он будет перезаписан.
func (r *Registry) Register(step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[normalizeType(step.Type())] = step
}

// Get возвращает шаг по типу.
// Возвращает ErrStepNotFound, если шаг не найден.
func (r *Registry) Get(stepType string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[normalizeType(stepType)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, stepType)
	}

	return step, nil
}

// Has проверяет, зарегистрирован ли шаг.
func (r *Registry) Has(stepType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.steps[normalizeType(stepType)]
	return exists
}

// Types возвращает список всех зарегистрированных типов шагов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.steps))
	for t := range r.steps {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Count возвращает количество зарегистрированных шагов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// Unregister удаляет шаг из реестра.
func (r *Registry) Unregister(stepType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.steps, normalizeType(stepType))
}

// Execute находит шаг по типу и выполняет его.
//
// Это контракт исполнителя для orchestrator: (тип, конфигурация) → сырой результат.
// Неизвестный тип даёт ErrStepNotFound.
func (r *Registry) Execute(ctx context.Context, stepType string, config value.Value) (value.Value, error) {
	step, err := r.Get(stepType)
	if err != nil {
		return nil, err
	}

	var cfg value.Map
	switch c := config.(type) {
	case nil, value.Null:
		cfg = value.Map{}
	case value.Map:
		cfg = c
	default:
		return nil, fmt.Errorf("%w: %s: config must be a map, got %s", ErrInvalidConfig, stepType, value.KindOf(config))
	}

	resp, err := step.Execute(ctx, NewRequest("", cfg, 0))
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Output == nil {
		return value.Map{}, nil
	}
	return resp.Output, nil
}

func normalizeType(stepType string) string {
	return strings.ToLower(strings.TrimSpace(stepType))
}
