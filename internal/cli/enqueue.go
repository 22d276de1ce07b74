package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
)

func newEnqueueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue FILE",
		Short: "Send a workflow to flewid-worker through RabbitMQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := a.output(cmd)

			wf, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			publisher, closePublisher, err := a.openPublisher(ctx)
			if err != nil {
				return err
			}
			defer closePublisher()

			runID := uuid.New()
			if err := publisher.PublishRunRequested(ctx, runID, wf); err != nil {
				return err
			}

			if a.jsonOutput {
				out.JSON(map[string]string{"run_id": runID.String(), "workflow_id": wf.ID})
				return nil
			}
			out.Success(fmt.Sprintf("Run %s enqueued for workflow %s", runID, wf.ID))
			return nil
		},
	}
}
