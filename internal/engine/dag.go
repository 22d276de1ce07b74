package engine

import (
	"fmt"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// Node это узел в DAG.
type Node struct {
	// Step это определение шага из Workflow.
	Step *domain.Node

	// ID это идентификатор узла.
	ID string

	// InDegree это количество входящих рёбер (зависимостей).
	InDegree int

	// DependsOn это узлы, от которых зависит этот узел.
	DependsOn []*Node

	// Dependents это узлы, которые зависят от этого узла, в порядке объявления рёбер.
	Dependents []*Node
}

// DAG это направленный ациклический граф шагов workflow.
type DAG struct {
	// Nodes это все узлы графа (nodeID → Node).
	Nodes map[string]*Node

	// RootNodes это узлы без зависимостей в порядке объявления.
	RootNodes []*Node

	// Order это топологически отсортированный список узлов.
	Order []*Node

	// declared хранит узлы в порядке объявления: от него зависит детерминизм.
	declared []*Node
}

// Order возвращает порядок выполнения шагов.
//
// Используется алгоритм Кана. Среди одновременно готовых узлов первым идёт
// объявленный раньше, последователи обходятся в порядке объявления рёбер.
// Рёбра с неизвестными концами отбрасываются, повторные рёбра учитываются один раз.
// Для графа с циклом возвращается *CycleError и никакого частичного порядка,
// для повторного ID узла возвращается ошибка ErrDuplicateNodeID.
func Order(nodes []domain.Node, edges []domain.Edge) ([]string, error) {
	dag, err := newDAG(nodes, edges)
	if err != nil {
		return nil, err
	}

	order, err := dag.topologicalSort()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(order))
	for i, node := range order {
		ids[i] = node.ID
	}
	return ids, nil
}

// BuildDAG строит DAG из Workflow и вычисляет порядок выполнения.
func BuildDAG(wf *domain.Workflow) (*DAG, error) {
	if wf == nil {
		return nil, ErrEmptyWorkflow
	}

	dag, err := newDAG(wf.Nodes, wf.Edges)
	if err != nil {
		return nil, err
	}

	order, err := dag.topologicalSort()
	if err != nil {
		return nil, err
	}
	dag.Order = order

	return dag, nil
}

func newDAG(nodes []domain.Node, edges []domain.Edge) (*DAG, error) {
	dag := &DAG{
		Nodes:     make(map[string]*Node, len(nodes)),
		RootNodes: make([]*Node, 0),
		declared:  make([]*Node, 0, len(nodes)),
	}

	// Первый проход: создаём узлы. Повторный ID это ошибка, иначе шаг потеряется.
	for i := range nodes {
		step := &nodes[i]
		if _, exists := dag.Nodes[step.ID]; exists {
			return nil, NewValidationError(step.ID, "id",
				fmt.Sprintf("duplicate node ID: %s", step.ID), ErrDuplicateNodeID)
		}
		node := &Node{
			Step:       step,
			ID:         step.ID,
			DependsOn:  make([]*Node, 0),
			Dependents: make([]*Node, 0),
		}
		dag.Nodes[step.ID] = node
		dag.declared = append(dag.declared, node)
	}

	// Второй проход: рёбра. Неизвестные концы молча пропускаются.
	for _, edge := range edges {
		from, okFrom := dag.Nodes[edge.Source]
		to, okTo := dag.Nodes[edge.Target]
		if !okFrom || !okTo {
			continue
		}
		dag.addEdge(from, to)
	}

	dag.findRootNodes()
	return dag, nil
}

// addEdge добавляет ребро между узлами.
// Дополнительно проверяет на дубликаты, чтобы избежать двойного учета InDegree.
func (d *DAG) addEdge(from, to *Node) {
	for _, dep := range to.DependsOn {
		if dep.ID == from.ID {
			return // уже связаны
		}
	}
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
	to.InDegree++
}

// findRootNodes находит узлы без входящих рёбер.
func (d *DAG) findRootNodes() {
	d.RootNodes = make([]*Node, 0)
	for _, node := range d.declared {
		if node.InDegree == 0 {
			d.RootNodes = append(d.RootNodes, node)
		}
	}
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана).
// Возвращает *CycleError, если обнаружен цикл.
func (d *DAG) topologicalSort() ([]*Node, error) {
	// Копируем inDegree, чтобы не модифицировать оригинал
	inDegree := make(map[string]int, len(d.Nodes))
	for id, node := range d.Nodes {
		inDegree[id] = node.InDegree
	}

	queue := make([]*Node, len(d.RootNodes))
	copy(queue, d.RootNodes)

	order := make([]*Node, 0, len(d.Nodes))

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dependent := range node.Dependents {
			inDegree[dependent.ID]--
			if inDegree[dependent.ID] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// Если не все узлы обработаны, есть цикл
	if len(order) != len(d.declared) {
		blocked := make([]string, 0, len(d.declared)-len(order))
		for _, node := range d.declared {
			if inDegree[node.ID] > 0 {
				blocked = append(blocked, node.ID)
			}
		}
		return nil, &CycleError{Blocked: blocked}
	}

	return order, nil
}

// GetNode возвращает узел по ID.
func (d *DAG) GetNode(id string) *Node {
	return d.Nodes[id]
}

// Size возвращает количество узлов в DAG.
func (d *DAG) Size() int {
	return len(d.Nodes)
}

// Dependencies возвращает ID прямых зависимостей узла.
func (d *DAG) Dependencies(id string) []string {
	node, ok := d.Nodes[id]
	if !ok {
		return nil
	}
	deps := make([]string, len(node.DependsOn))
	for i, dep := range node.DependsOn {
		deps[i] = dep.ID
	}
	return deps
}

// OrderIDs возвращает ID узлов в порядке выполнения.
func (d *DAG) OrderIDs() []string {
	ids := make([]string, len(d.Order))
	for i, node := range d.Order {
		ids[i] = node.ID
	}
	return ids
}
