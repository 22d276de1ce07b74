// Package scheduler запускает workflow по cron-расписанию (robfig/cron).
//
//	sched := scheduler.New(scheduler.Config{
//	    Trigger: scheduler.TriggerFunc(func(ctx context.Context, e scheduler.Entry) error {
//	        _, err := orchestrator.New(cfg).Execute(ctx, e.Workflow)
//	        return err
//	    }),
//	    Logger: logger,
//	})
//	if err := sched.Add(scheduler.Entry{Expr: "*/5 * * * *", Workflow: wf}); err != nil {
//	    return err
//	}
//	sched.Start()
//	defer sched.Stop(ctx)
//
// Trigger решает, где выполняется run: локально или публикацией run.requested.
package scheduler
