package rules

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/frontmatter"
	"github.com/ryantking/crules/internal/ruleset"
)

// NewShowCmd creates the show command.
func NewShowCmd(g *Globals) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show RULE_NAME",
		Short: "Display a deployed rule",
		Long: `Display a deployed rule including its frontmatter and body.
Use --raw to print the file exactly as stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.Workspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			data, _, err := ws.Engine.ReadRule(args[0])
			switch {
			case errors.Is(err, deploy.ErrRulesDirMissing):
				return notInitialized(err)
			case errors.Is(err, deploy.ErrRuleNotFound):
				return ruleNotFound(ws, args[0], err)
			case err != nil:
				return err
			}

			if raw {
				_, err := out.Write(data)
				return err
			}
			return showPretty(out, data)
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Output the raw rule file")

	return cmd
}

func showPretty(w io.Writer, data []byte) error {
	content := string(data)
	md, err := frontmatter.Parse(data)
	if err != nil {
		// Without a readable header there is nothing to tidy.
		_, err := io.WriteString(w, content)
		return err
	}

	fmt.Fprintln(w, "---")
	if md.Description != "" {
		fmt.Fprintf(w, "description: %s\n", md.Description)
	}
	if len(md.Globs) > 0 {
		fmt.Fprintf(w, "globs: [%s]\n", strings.Join(md.Globs, ", "))
	}
	fmt.Fprintf(w, "alwaysApply: %t\n", md.AlwaysApply)
	fmt.Fprintln(w, "---")
	_, err = io.WriteString(w, frontmatter.Body(content))
	return err
}

// ruleNotFound adds the deployed rules and any close matches to err.
func ruleNotFound(ws *Workspace, name string, err error) error {
	rules, listErr := ws.Engine.Deployed()
	if listErr != nil || len(rules) == 0 {
		return err
	}

	var b strings.Builder
	b.WriteString("Available rules:")
	for _, n := range deploy.Names(rules) {
		fmt.Fprintf(&b, "\n  - %s", n)
	}
	if s := ruleset.Suggest(name, deploy.Names(rules)); len(s) > 0 {
		fmt.Fprintf(&b, "\n\nDid you mean: %s?", strings.Join(s, ", "))
	}
	return fmt.Errorf("%w\n\n%s", err, b.String())
}
