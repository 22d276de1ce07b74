// Package steps содержит исполнителей шагов workflow.
//
// Orchestrator не знает, как выполняется конкретный тип шага. Он передаёт
// тип и конфигурацию (с уже подставленными переменными) в StepExecutor,
// а Registry реализует этот контракт: находит Step по типу и вызывает его.
//
// Новые типы шагов (cloudwatch, dynamodb, lambda, ...) добавляются через
// Registry.Register, без изменения orchestrator.
//
// # Типы шагов
//
//   - http.go      : HTTP запрос, результат {statusCode, contentType, headers, body}
//   - delay.go     : пауза, результат {duration_ms, duration}
//   - transform.go : возвращает дерево output, собранное из переменных
//
// # Обработка ошибок
//
//	var (
//	    ErrStepNotFound   // неизвестный тип шага
//	    ErrInvalidConfig  // неверная конфигурация
//	    ErrStepCancelled  // context cancelled
//	)
//
// Ответ HTTP со статусом >= 400 возвращается как *HTTPError.
// Retry нет: ошибка любого шага останавливает run.
package steps
