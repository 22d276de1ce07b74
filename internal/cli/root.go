package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/config"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/mq"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/repo"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/steps"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/telemetry"
)

// ErrRunFailed возвращается командой run, если workflow завершился со статусом failed.
var ErrRunFailed = errors.New("run failed")

// app это общее состояние команд: флаги, конфигурация и логгер.
type app struct {
	configFile string
	envFile    string
	jsonOutput bool
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd создаёт корневую команду flewid.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "flewid",
		Short:         "flewid: run DAG workflows with variable passing between steps",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to flewid.yaml")
	flags.StringVar(&a.envFile, "env-file", "", "Path to .env file")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newPlanCmd(a),
		newEnqueueCmd(a),
		newScheduleCmd(a),
		newHistoryCmd(a),
	)

	return rootCmd
}

// init загружает конфигурацию и настраивает логгер. Логи идут в stderr.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	a.cfg = cfg
	a.logger = telemetry.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(a.jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func (a *app) registry() *steps.Registry {
	return steps.DefaultRegistry(a.cfg.Steps.HTTPTimeout)
}

// openRuns подключается к PostgreSQL и создаёт таблицу runs при необходимости.
func (a *app) openRuns(ctx context.Context) (*repo.RunRepo, func(), error) {
	pool, err := repo.NewPool(ctx, a.cfg.Database.URL, a.cfg.Database.MaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo.NewRunRepo(pool), closePool(pool), nil
}

func closePool(pool *pgxpool.Pool) func() {
	return func() { pool.Close() }
}

// openPublisher подключается к RabbitMQ и объявляет топологию.
func (a *app) openPublisher(ctx context.Context) (*mq.Publisher, func(), error) {
	conn, err := mq.NewConnection(a.cfg.RabbitMQ.URL, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	if err := mq.SetupTopology(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("setup topology: %w", err)
	}
	return mq.NewPublisher(conn, a.logger), func() { _ = conn.Close() }, nil
}
