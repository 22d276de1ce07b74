package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/orchestrator"
)

func newRunCmd(a *app) *cobra.Command {
	var save bool
	var notify bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a workflow locally",
		Long: `Run executes every step of the workflow in dependency order.
Step outputs are available to later steps as {{nodeId.path}} references.
The command exits with an error if any step fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := a.output(cmd)

			wf, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range engine.Warnings(wf) {
				a.logger.Warn(w, "workflow_id", wf.ID)
			}

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

			if notify {
				publisher, closePublisher, err := a.openPublisher(ctx)
				if err != nil {
					return err
				}
				defer closePublisher()
				orchCfg.Notifier = publisher
			}

			run, err := orchestrator.New(orchCfg).Execute(ctx, wf)
			if err != nil {
				return err
			}

			out.PrintRun(run)

			if run.Status == domain.RunStatusFailed {
				return fmt.Errorf("%w: %s", ErrRunFailed, run.Error)
			}
			out.Success(fmt.Sprintf("Run %s completed: %d steps in %s",
				run.ID, len(run.Results), run.Duration().Round(time.Millisecond)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the run in PostgreSQL")
	cmd.Flags().BoolVar(&notify, "notify", false, "Publish run.finished to RabbitMQ")

	return cmd
}
