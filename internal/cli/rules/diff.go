package rules

import (
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/report"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(g *Globals) *cobra.Command {
	var ruleSet, framework string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare deployed rules with their templates",
		Long: `Show a unified diff between each template of a rule-set and the deployed
rule file, and list templates that have not been deployed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.TemplateWorkspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			set, err := ws.resolveRuleSet(ruleSet, framework)
			if err != nil {
				return err
			}

			diffs, err := ws.Engine.Diff(set.Name)
			if err != nil {
				return err
			}

			var changed, missing, unchanged int
			for _, d := range diffs {
				p.Item(d.Target, d.Status)
				switch d.Status {
				case report.Changed:
					changed++
					p.Printf("%s", d.Unified)
				case report.Missing:
					missing++
				default:
					unchanged++
				}
			}

			p.Note("%d changed, %d missing, %d unchanged", changed, missing, unchanged)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ruleSet, "rule-set", "r", "", "Rule-set to compare (default from config)")
	cmd.Flags().StringVar(&framework, "framework", "", "Alias of --rule-set")
	cmd.MarkFlagsMutuallyExclusive("rule-set", "framework")

	return cmd
}
