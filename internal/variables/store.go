package variables

import (
	"sync"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// Lookup это доступ на чтение к результатам шагов.
// Store реализует его; в тестах его легко подменить map'ой.
type Lookup interface {
	Get(nodeID string) (*domain.NodeOutput, bool)
}

// Store хранит результаты шагов одного run.
//
// Store принадлежит одному orchestrator'у и очищается в начале каждого run.
// Разные run никогда не делят один Store.
type Store struct {
	mu      sync.RWMutex
	outputs map[string]*domain.NodeOutput
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		outputs: make(map[string]*domain.NodeOutput),
	}
}

// Put сохраняет результат шага, перезаписывая предыдущий с тем же ID.
func (s *Store) Put(output *domain.NodeOutput) {
	if output == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outputs[output.NodeID] = output
}

// Get возвращает результат шага.
func (s *Store) Get(nodeID string) (*domain.NodeOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	output, ok := s.outputs[nodeID]
	return output, ok
}

// Has возвращает true, только если шаг есть и завершился успешно.
func (s *Store) Has(nodeID string) bool {
	output, ok := s.Get(nodeID)
	return ok && output.Status == domain.StepStatusSuccess
}

// Clear удаляет все результаты.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outputs = make(map[string]*domain.NodeOutput)
}

// Len возвращает количество сохранённых результатов.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.outputs)
}

// Snapshot возвращает копию переменных успешных шагов.
func (s *Store) Snapshot() map[string]domain.VariableSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]domain.VariableSnapshot, len(s.outputs))
	for id, output := range s.outputs {
		if output.Status != domain.StepStatusSuccess {
			continue
		}
		snapshot[id] = output.Snapshot()
	}
	return snapshot
}
