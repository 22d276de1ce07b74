package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
)

// planStep это строка плана выполнения.
type planStep struct {
	Position  int      `json:"position"`
	NodeID    string   `json:"node_id"`
	Type      string   `json:"type"`
	DependsOn []string `json:"depends_on"`
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan FILE",
		Short: "Show the execution order of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.output(cmd)

			wf, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			dag, err := engine.BuildDAG(wf)
			if err != nil {
				return err
			}

			plan := make([]planStep, len(dag.Order))
			rows := make([][]string, len(dag.Order))
			for i, node := range dag.Order {
				deps := dag.Dependencies(node.ID)
				plan[i] = planStep{
					Position:  i + 1,
					NodeID:    node.ID,
					Type:      node.Step.Type,
					DependsOn: deps,
				}
				rows[i] = []string{strconv.Itoa(i + 1), node.ID, node.Step.Type, dash(strings.Join(deps, ", "))}
			}

			out.Print([]string{"#", "NODE", "TYPE", "DEPENDS_ON"}, rows, plan)
			return nil
		},
	}
}
