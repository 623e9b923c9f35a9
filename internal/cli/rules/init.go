package rules

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/report"
	"github.com/ryantking/crules/internal/ruleset"
)

// NewInitCmd creates the init command.
func NewInitCmd(g *Globals) *cobra.Command {
	var ruleSet, framework string
	var force, clean, dryRun, list bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Copy a rule-set into the project's rules directory",
		Long: heredoc.Doc(`
			Copy every rule template of a rule-set into the rules directory of the
			current project (.cursor/rules by default), renaming .md files to .mdc.

			The project root is the nearest ancestor of the working directory that
			contains a project marker such as .git or go.mod. Existing rule files
			are skipped unless --force is given. --clean removes the whole rules
			directory before copying.
		`),
		Example: heredoc.Doc(`
			# Deploy the default rule-set
			crules init

			# Deploy the flutter rule-set, replacing existing files
			crules init --rule-set flutter --force

			# Show what would be copied
			crules init --dry-run
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.TemplateWorkspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			if list {
				sets, err := ws.RuleSets.List()
				if err != nil {
					return err
				}
				p.Printf("Available rule-sets:\n")
				return ruleset.Fprint(p.Writer(), sets)
			}

			set, err := ws.resolveRuleSet(ruleSet, framework)
			if err != nil {
				return err
			}

			p.Printf("Initializing %s rules in %s...\n", set.Name, ws.RulesDirName())

			sum, err := ws.Engine.CopyRuleSet(set.Name, deploy.Options{
				Force:  force,
				Clean:  clean,
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf("failed to copy rule-set %s: %w", set.Name, err)
			}

			switch {
			case dryRun:
				p.Note("Dry run, no files were written")
			case sum.Written() > 0:
				p.Note("Copied %d rule(s)", sum.Written())
			case sum.Skipped > 0:
				p.Note("No rules copied (all already exist, use --force to overwrite)")
			default:
				p.Note("Rules are up to date")
			}

			if !dryRun {
				ws.WarnIfIgnored(p)
			}
			p.Success("Rules initialized successfully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&ruleSet, "rule-set", "r", "", "Rule-set to deploy (default from config)")
	cmd.Flags().StringVar(&framework, "framework", "", "Alias of --rule-set")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing rule files")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove the rules directory before copying")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be copied without writing")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available rule-sets and exit")
	cmd.MarkFlagsMutuallyExclusive("rule-set", "framework")

	return cmd
}
