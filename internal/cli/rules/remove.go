package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/report"
	"github.com/ryantking/crules/internal/ruleset"
)

// Confirm asks the user a yes/no question.
type Confirm func(title string) (bool, error)

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Remove").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

// NewRemoveCmd creates the remove command.
func NewRemoveCmd(g *Globals) *cobra.Command {
	return newRemoveCmd(g, confirmPrompt)
}

func newRemoveCmd(g *Globals, confirm Confirm) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "remove RULE_NAME...",
		Short: "Remove deployed rules",
		Long: `Remove rule files from the rules directory. Takes rule names with or without
the .mdc extension. Names that do not exist are reported and left alone.
Use --interactive to confirm each removal.`,
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.Workspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			removed, failed := 0, 0
			for _, name := range args {
				path, err := ws.Engine.FindRule(name)
				switch {
				case errors.Is(err, deploy.ErrRulesDirMissing):
					p.Note("Rules directory not found: %s", ws.RulesDirName())
					return nil
				case errors.Is(err, deploy.ErrRuleNotFound), errors.Is(err, deploy.ErrInvalidRuleName):
					p.Fail("%s: rule not found%s", name, didYouMean(ws, name))
					continue
				case err != nil:
					p.Fail("%s: %v", name, err)
					failed++
					continue
				}

				if interactive {
					ok, err := confirm(fmt.Sprintf("Remove rule %s?", path))
					if err != nil {
						return fmt.Errorf("failed to read confirmation: %w", err)
					}
					if !ok {
						p.Note("Skipped %s", name)
						continue
					}
				}

				if _, err := ws.Engine.RemoveRule(name); err != nil {
					p.Fail("%s: %v", name, err)
					failed++
					continue
				}
				p.Item(path, report.Removed)
				removed++
			}

			if removed > 0 {
				p.Success("Removed %d rule(s)", removed)
			}
			if failed > 0 {
				return fmt.Errorf("failed to remove %d rule(s)", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Confirm each removal")

	return cmd
}

func didYouMean(ws *Workspace, name string) string {
	rules, err := ws.Engine.Deployed()
	if err != nil {
		return ""
	}
	s := ruleset.Suggest(name, deploy.Names(rules))
	if len(s) == 0 {
		return ""
	}
	return " (did you mean " + strings.Join(s, ", ") + "?)"
}
