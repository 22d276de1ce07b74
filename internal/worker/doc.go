// Package worker выполняет workflow, полученные из RabbitMQ.
//
// Сообщение run.requested содержит документ workflow целиком. Worker
// проверяет его, сохраняет run в статусе pending, выполняет его новым
// orchestrator.Orchestrator и публикует run.finished.
//
//	w := worker.New(worker.Config{
//	    Conn:        conn,
//	    Runs:        repo.NewRunRepo(pool),
//	    Notifier:    publisher,
//	    Executor:    steps.DefaultRegistry(cfg.Steps.HTTPTimeout),
//	    Concurrency: cfg.RabbitMQ.Concurrency,
//	    Logger:      logger,
//	})
//	err := w.Start(ctx)
//
// Повторная доставка уже завершённого run подтверждается без выполнения.
// Некорректный workflow отправляется в dlq.runs.
package worker
