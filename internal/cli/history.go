package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/repo"
)

func newHistoryCmd(a *app) *cobra.Command {
	var workflowID string
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List stored runs or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := a.output(cmd)

			runs, closeRuns, err := a.openRuns(ctx)
			if err != nil {
				return err
			}
			defer closeRuns()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid run ID %q: %w", args[0], err)
				}
				run, err := runs.GetByID(ctx, id)
				if err != nil {
					return err
				}
				out.PrintRun(run)
				return nil
			}

			list, err := runs.List(ctx, repo.RunFilter{
				WorkflowID: workflowID,
				Status:     domain.RunStatus(status),
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, len(list))
			for i, r := range list {
				rows[i] = []string{
					r.ID.String(),
					dash(r.WorkflowID),
					string(r.Status),
					strconv.Itoa(len(r.Results)),
					r.CreatedAt.Format(time.RFC3339),
				}
			}
			out.Print([]string{"ID", "WORKFLOW", "STATUS", "STEPS", "CREATED"}, rows, list)
			return nil
		},
	}

	cmd.Flags().StringVar(&workflowID, "workflow", "", "Filter by workflow ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, running, completed, failed)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")

	return cmd
}
