package rules

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/frontmatter"
	"github.com/ryantking/crules/internal/report"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the frontmatter of deployed rules",
		Long: `Check that every deployed rule starts with a frontmatter block containing
description (at most 100 characters), globs (a pattern or a list of patterns)
and alwaysApply (true or false).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.Workspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			rules, err := ws.Engine.Deployed()
			if errors.Is(err, deploy.ErrRulesDirMissing) {
				return notInitialized(err)
			}
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				p.Printf("No rules found.\n")
				return nil
			}

			v, err := frontmatter.NewValidator()
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range rules {
				data, _, err := ws.Engine.ReadRule(r.Name)
				if err == nil {
					err = v.Validate(data)
				}
				if err != nil {
					p.Fail("%s: %v", r.Path, err)
					failed++
					continue
				}
				p.Item(r.Path, report.Valid)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d rule(s) failed validation", failed, len(rules))
			}
			p.Success("All %d rule(s) are valid", len(rules))
			return nil
		},
	}

	return cmd
}
