// Package cli реализует команды flewid на cobra.
//
// Команды:
//   - run FILE: выполнить workflow локально (--save сохраняет run в PostgreSQL)
//   - validate FILE: проверить документ и ссылки {{...}}
//   - plan FILE: показать порядок выполнения
//   - enqueue FILE: отправить workflow в очередь runs.requested
//   - schedule FILE --cron EXPR: запускать workflow по расписанию
//   - history [RUN_ID]: сохранённые runs
//
// Данные печатаются в stdout (таблица или --json), сообщения и логи в stderr:
//
//	flewid run wf.yaml --json | jq '.results[] | {node_id, status}'
package cli
