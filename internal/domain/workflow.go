package domain

import "github.com/VanshikaVirmani12/flewid-sub000/internal/value"

// Workflow описывает граф шагов: узлы и рёбра зависимостей.
//
// Workflow создаётся при проектировании графа и не меняется во время run.
// Engine никогда не модифицирует Config узлов: подстановка переменных
// строит производную копию.
type Workflow struct {
	// ID это идентификатор workflow (опционально для локальных файлов).
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name это человекочитаемое имя.
	Name string `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=200"`

	// Description описывает назначение workflow.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Nodes это шаги workflow в порядке объявления.
	// Порядок объявления используется для детерминированного выбора среди
	// одновременно готовых шагов.
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`

	// Edges это зависимости между шагами.
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty" validate:"dive"`
}

// Node это один шаг workflow.
type Node struct {
	// ID уникален в пределах workflow. На него ссылаются переменные {{id.path}}.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Type это тег типа шага (cloudwatch, dynamodb, http, start, ...).
	// Набор типов открыт: новые типы регистрируются в steps.Registry.
	Type string `json:"type" yaml:"type" validate:"required"`

	// Label это подпись для UI.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Config это конфигурация шага. Строки внутри могут содержать {{...}}.
	Config value.Map `json:"config,omitempty" yaml:"config,omitempty"`
}

// Edge это зависимость: Target не запускается раньше завершения Source.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source" validate:"required"`
	Target string `json:"target" yaml:"target" validate:"required"`
}

// NodeIndex возвращает узлы по ID. При дубликатах побеждает первый объявленный.
func (w *Workflow) NodeIndex() map[string]*Node {
	index := make(map[string]*Node, len(w.Nodes))
	for i := range w.Nodes {
		node := &w.Nodes[i]
		if _, exists := index[node.ID]; !exists {
			index[node.ID] = node
		}
	}
	return index
}

// GetNode возвращает узел по ID.
func (w *Workflow) GetNode(id string) (*Node, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i], true
		}
	}
	return nil, false
}
