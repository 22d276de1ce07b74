// flewid-worker выполняет workflow из очереди runs.requested.
//
// Worker:
//   - получает запросы из RabbitMQ
//   - выполняет каждый run своим Orchestrator
//   - сохраняет run в PostgreSQL, если задан database.url
//   - публикует run.finished
//
// Экземпляры масштабируются горизонтально.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/config"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/mq"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/repo"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/steps"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/telemetry"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/worker"
)

func main() {
	configFile := flag.String("config", "", "path to flewid.yaml")
	envFile := flag.String("env-file", "", "path to .env file")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile, EnvFile: *envFile})
	if err != nil {
		telemetry.SetupLogger().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	logger.Info("starting flewid-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// история runs необязательна
	var runs worker.RunStore
	if cfg.Database.URL != "" {
		pool, err := repo.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		runs = repo.NewRunRepo(pool)
		logger.Info("database connected")
	} else {
		logger.Warn("database.url is empty, runs will not be stored")
	}

	conn, err := mq.NewConnection(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}
	logger.Debug(mq.TopologyInfo())

	w := worker.New(worker.Config{
		Conn:        conn,
		Runs:        runs,
		Notifier:    mq.NewPublisher(conn, logger),
		Executor:    steps.DefaultRegistry(cfg.Steps.HTTPTimeout),
		MarkerTypes: cfg.Steps.Markers,
		Prefetch:    cfg.RabbitMQ.Prefetch,
		Concurrency: cfg.RabbitMQ.Concurrency,
		Logger:      logger,
	})

	// HTTP: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		if !conn.IsConnected() {
			http.Error(rw, "rabbitmq disconnected", http.StatusServiceUnavailable)
			return
		}
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// блокируется до сигнала
	if err := w.Start(ctx); err != nil {
		logger.Error("worker error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}

	logger.Info("flewid-worker stopped")
}
