// Package engine отвечает за структуру workflow.
//
// Включает:
//   - dag.go      : построение DAG и порядок выполнения (алгоритм Кана)
//   - validate.go : проверка workflow перед запуском
//
// Выполнение шагов и передача переменных живут в пакетах orchestrator и variables.
package engine
