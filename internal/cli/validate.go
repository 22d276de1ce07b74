package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/loader"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/variables"
)

// validateReport это результат validate в JSON режиме.
type validateReport struct {
	ID         string   `json:"id"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
	References int      `json:"references"`
	Warnings   []string `json:"warnings"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a workflow file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.output(cmd)

			wf, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			report := validateReport{
				ID:       wf.ID,
				Nodes:    len(wf.Nodes),
				Edges:    len(wf.Edges),
				Warnings: engine.Warnings(wf),
			}
			if report.Warnings == nil {
				report.Warnings = []string{}
			}

			// ссылки на шаги, которых нет в workflow, никогда не разрешатся
			known := make(map[string]bool, len(wf.Nodes))
			for _, node := range wf.Nodes {
				known[node.ID] = true
			}
			for _, node := range wf.Nodes {
				for _, ref := range configReferences(node.Config) {
					report.References++
					if !known[ref.NodeID] {
						report.Warnings = append(report.Warnings,
							fmt.Sprintf("node %s: reference %s points to unknown node", node.ID, ref.Raw))
					}
				}
			}

			if a.jsonOutput {
				out.JSON(report)
				return nil
			}

			for _, w := range report.Warnings {
				out.Warn(w)
			}
			out.Success(fmt.Sprintf("Workflow %s is valid: %d nodes, %d edges, %d references",
				report.ID, report.Nodes, report.Edges, report.References))
			return nil
		},
	}
}

// configReferences собирает ссылки {{...}} из всех строк конфигурации.
func configReferences(v value.Value) []variables.Reference {
	switch t := v.(type) {
	case value.String:
		return variables.Parse(string(t))
	case value.List:
		var refs []variables.Reference
		for _, item := range t {
			refs = append(refs, configReferences(item)...)
		}
		return refs
	case value.Map:
		var refs []variables.Reference
		for _, k := range t.Keys() {
			refs = append(refs, configReferences(t[k])...)
		}
		return refs
	default:
		return nil
	}
}
