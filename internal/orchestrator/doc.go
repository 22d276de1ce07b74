// Package orchestrator выполняет run workflow.
//
// Orchestrator отвечает за:
//   - Получение порядка шагов (engine.Order), цикл сразу делает run failed
//   - Подстановку переменных в конфигурацию каждого шага
//   - Вызов StepExecutor и сохранение результата в хранилище переменных
//   - Остановку run на первой ошибке шага (fail-fast)
//   - Финализацию run (completed/failed) и вызов hooks
//
// Шаги выполняются последовательно, даже если граф допускает параллельные ветки.
// Один Orchestrator выполняет один run за раз; для параллельных run создаются
// отдельные экземпляры, у каждого своё хранилище переменных.
package orchestrator
