package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/orchestrator"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/scheduler"
)

const scheduleStopTimeout = 30 * time.Second

func newScheduleCmd(a *app) *cobra.Command {
	var cronExpr string
	var timezone string
	var queue bool
	var save bool

	cmd := &cobra.Command{
		Use:   "schedule FILE",
		Short: "Run a workflow on a cron schedule until interrupted",
		Example: `  flewid schedule nightly.yaml --cron "0 3 * * *" --tz Europe/Moscow
  flewid schedule probe.yaml --cron "@every 5m" --queue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := a.output(cmd)

			wf, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			var trigger scheduler.Trigger
			if queue {
				publisher, closePublisher, err := a.openPublisher(ctx)
				if err != nil {
					return err
				}
				defer closePublisher()

				trigger = scheduler.TriggerFunc(func(ctx context.Context, e scheduler.Entry) error {
					return publisher.PublishRunRequested(ctx, uuid.New(), e.Workflow)
				})
			} else {
				orchCfg := orchestrator.Config{
					Executor:    a.registry(),
					MarkerTypes: a.cfg.Steps.Markers,
					Logger:      a.logger,
				}
				if save {
					runs, closeRuns, err := a.openRuns(ctx)
					if err != nil {
						return err
					}
					defer closeRuns()
					orchCfg.Recorder = runs
				}
				trigger = localTrigger(orchCfg)
			}

			sched := scheduler.New(scheduler.Config{Trigger: trigger, Logger: a.logger})
			if err := sched.Add(scheduler.Entry{Expr: cronExpr, Timezone: timezone, Workflow: wf}); err != nil {
				return err
			}

			next, err := scheduler.NextDue(cronExpr, timezone, time.Now())
			if err != nil {
				return err
			}
			out.Success(fmt.Sprintf("Scheduled %s (%s), next run at %s", wf.ID, cronExpr, next.Format(time.RFC3339)))

			sched.Start()
			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), scheduleStopTimeout)
			defer cancel()
			return sched.Stop(stopCtx)
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression or descriptor (@every 5m)")
	cmd.Flags().StringVar(&timezone, "tz", "", "IANA timezone for the cron expression (default UTC)")
	cmd.Flags().BoolVar(&queue, "queue", false, "Publish run.requested instead of running locally")
	cmd.Flags().BoolVar(&save, "save", false, "Store local runs in PostgreSQL")
	_ = cmd.MarkFlagRequired("cron")

	return cmd
}

// localTrigger выполняет каждый запуск новым Orchestrator.
// Упавший run это не ошибка запуска: он уже залогирован orchestrator'ом.
func localTrigger(cfg orchestrator.Config) scheduler.Trigger {
	return scheduler.TriggerFunc(func(ctx context.Context, e scheduler.Entry) error {
		run, err := orchestrator.New(cfg).Execute(ctx, e.Workflow)
		if err != nil {
			return err
		}
		if run.Status != domain.RunStatusCompleted {
			cfg.Logger.Warn("scheduled run failed", "run_id", run.ID, "error", run.Error)
		}
		return nil
	})
}
