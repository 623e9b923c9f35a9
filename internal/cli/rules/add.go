package rules

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/exitcode"
	"github.com/ryantking/crules/internal/report"
)

// NewAddCmd creates the add command.
func NewAddCmd(g *Globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "add RULE_NAME",
		Short: "Create a new rule from the rule template",
		Long: heredoc.Doc(`
			Create RULE_NAME.mdc in the rules directory from the single rule
			template (rule.md by default). Fails if the rule already exists
			unless --force is given.
		`),
		Example: heredoc.Doc(`
			crules add api-style
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.TemplateWorkspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			path, err := ws.Engine.AddRule(args[0], ws.Config.RuleTemplate, force)
			if errors.Is(err, deploy.ErrInvalidRuleName) {
				return exitcode.New(exitcode.Usage, err)
			}
			if errors.Is(err, deploy.ErrTemplateMissing) {
				return fmt.Errorf(`%w

To fix this:
  - Add %s to the templates directory
  - Or set rule_template in the config file`, err, ws.Config.RuleTemplate)
			}
			if err != nil {
				return err
			}

			ws.WarnIfIgnored(p)
			p.Success("Rule created successfully")
			p.Printf("\nTip: Fill in the description and globs in %s, then run 'crules validate'.\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing rule")

	return cmd
}
