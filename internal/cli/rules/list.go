package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
)

// NewListCmd creates the list command.
func NewListCmd(g *Globals) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployed rules",
		Long: `List the rule files in the rules directory with their description and size.
Use --json for structured output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.Workspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rules, err := ws.Engine.Deployed()
			if err != nil && !errors.Is(err, deploy.ErrRulesDirMissing) {
				return err
			}

			if jsonOutput {
				return outputJSON(out, rules)
			}
			return outputTable(out, rules)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func outputTable(w io.Writer, rules []deploy.Rule) error {
	if len(rules) == 0 {
		fmt.Fprintln(w, "No rules found.")
		fmt.Fprintln(w, "0 rules")
		return nil
	}

	isTTY, width := terminal(w)
	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"NAME", "DESCRIPTION", "SIZE"})
	for _, r := range rules {
		tp.AddField(r.Name)
		tp.AddField(r.Description)
		tp.AddField(humanize.Bytes(uint64(r.Size))) //nolint:gosec // File sizes are never negative.
		tp.EndRow()
	}
	if err := tp.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d rule(s)\n", len(rules))
	return nil
}

// terminal reports whether w is an interactive terminal and its width.
func terminal(w io.Writer) (bool, int) {
	if w != os.Stdout {
		return false, 80
	}

	t := term.FromEnv()
	if !t.IsTerminalOutput() {
		return false, 80
	}
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		return true, 80
	}
	return true, width
}

func outputJSON(w io.Writer, rules []deploy.Rule) error {
	if rules == nil {
		rules = []deploy.Rule{}
	}
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
