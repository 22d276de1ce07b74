// Package mq передаёт запросы на выполнение workflow через RabbitMQ.
//
// Сообщения:
//   - run.requested: workflow целиком и ID run; потребитель flewid-worker
//   - run.finished: итог run (статус, число шагов, упавший узел)
//
// Connection переподключается сам, Consumer перезапускает потребление
// после переподключения. Ошибка обработчика, обёрнутая в ErrPermanent,
// отправляет сообщение в dlq.runs, остальные ошибки возвращают его в очередь.
package mq
