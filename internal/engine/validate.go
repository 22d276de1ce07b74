package engine

import (
	"fmt"
	"strings"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// Validate проверяет workflow перед запуском.
//
// Проверяет:
//   - наличие шагов
//   - непустые и уникальные ID шагов
//   - отсутствие в ID символов '.', '{', '}' (иначе на шаг нельзя сослаться)
//   - непустой тип шага
//   - отсутствие циклов
//
// Рёбра с неизвестными концами ошибкой не считаются, см. Warnings.
func Validate(wf *domain.Workflow) error {
	if wf == nil || len(wf.Nodes) == 0 {
		return ErrEmptyWorkflow
	}

	nodeIDs := make(map[string]bool, len(wf.Nodes))
	for i := range wf.Nodes {
		if err := ValidateNode(&wf.Nodes[i], nodeIDs); err != nil {
			return err
		}
	}

	if _, err := Order(wf.Nodes, wf.Edges); err != nil {
		return err
	}

	return nil
}

// ValidateNode валидирует один шаг.
// nodeIDs это уже встреченные ID шагов (для проверки уникальности).
func ValidateNode(node *domain.Node, nodeIDs map[string]bool) error {
	if node.ID == "" {
		return NewValidationError("", "id", "node has empty ID", ErrEmptyNodeID)
	}

	if strings.ContainsAny(node.ID, ".{}") {
		return NewValidationError(node.ID, "id",
			fmt.Sprintf("node ID %q must not contain '.', '{' or '}'", node.ID), ErrInvalidNodeID)
	}

	if nodeIDs[node.ID] {
		return NewValidationError(node.ID, "id",
			fmt.Sprintf("duplicate node ID: %s", node.ID), ErrDuplicateNodeID)
	}
	nodeIDs[node.ID] = true

	if strings.TrimSpace(node.Type) == "" {
		return NewValidationError(node.ID, "type", "node has empty type", ErrEmptyNodeType)
	}

	return nil
}

// Warnings возвращает некритичные замечания: рёбра с неизвестными концами
// и петли. Планировщик такие рёбра игнорирует (петля при этом даёт цикл).
func Warnings(wf *domain.Workflow) []string {
	if wf == nil {
		return nil
	}

	known := make(map[string]bool, len(wf.Nodes))
	for _, node := range wf.Nodes {
		known[node.ID] = true
	}

	var warnings []string
	for i, edge := range wf.Edges {
		name := edge.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if !known[edge.Source] {
			warnings = append(warnings, fmt.Sprintf("edge %s: unknown source %q ignored", name, edge.Source))
		}
		if !known[edge.Target] {
			warnings = append(warnings, fmt.Sprintf("edge %s: unknown target %q ignored", name, edge.Target))
		}
		if edge.Source == edge.Target && known[edge.Source] {
			warnings = append(warnings, fmt.Sprintf("edge %s: node %q depends on itself", name, edge.Source))
		}
	}
	return warnings
}
