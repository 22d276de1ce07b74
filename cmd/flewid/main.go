// flewid: запуск DAG workflow с передачей переменных между шагами.
//
// Использование:
//
//	flewid [--config FILE] [--json] <command> [flags]
//
// Команды:
//
//	run       Выполнить workflow локально
//	validate  Проверить файл workflow
//	plan      Показать порядок выполнения
//	enqueue   Отправить workflow в очередь
//	schedule  Запускать workflow по cron
//	history   Сохранённые runs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
