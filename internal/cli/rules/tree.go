package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/report"
	"github.com/ryantking/crules/internal/ruleset"
)

// NewTreeCmd creates the tree command.
func NewTreeCmd(g *Globals) *cobra.Command {
	var ruleSet, framework string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the template files of each rule-set",
		Long: heredoc.Doc(`
			Print the templates source as a tree with one branch per rule-set,
			listing the files that init would copy. Description files, hidden
			entries, and files without the source extension are left out.
		`),
		Example: heredoc.Doc(`
			crules tree
			crules tree --rule-set flutter
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.TemplateWorkspace(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := report.New(cmd.OutOrStdout())

			name := ruleSet
			if name == "" {
				name = framework
			}

			var sets []ruleset.RuleSet
			if name != "" {
				set, err := ruleset.Resolve(ws.RuleSets, name)
				if err != nil {
					return err
				}
				sets = append(sets, set)
			} else {
				sets, err = ws.RuleSets.List()
				if err != nil {
					return err
				}
			}

			source := ws.Config.TemplatesDir
			if source == "" {
				source = "(bundled)"
			}
			p.Printf("Templates: %s\n\n", source)

			var total int
			for _, set := range sets {
				files, err := ws.Engine.Files(set.Name)
				if err != nil {
					return err
				}
				total += len(files)
				p.Printf("%s\n", templateTree(set, files))
			}

			p.Printf("\n%d rule-set(s), %d template(s)\n", len(sets), total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ruleSet, "rule-set", "r", "", "Only show this rule-set")
	cmd.Flags().StringVar(&framework, "framework", "", "Alias of --rule-set")
	cmd.MarkFlagsMutuallyExclusive("rule-set", "framework")

	return cmd
}

// templateTree renders the files of one rule-set, nesting subdirectories.
func templateTree(set ruleset.RuleSet, files []deploy.Template) *tree.Tree {
	label := set.Name
	if set.Description != "" && set.Description != set.Name {
		label = fmt.Sprintf("%s (%s)", set.Name, set.Description)
	}
	root := tree.Root(label)

	dirs := map[string]*tree.Tree{".": root}
	var branch func(dir string) *tree.Tree
	branch = func(dir string) *tree.Tree {
		if t, ok := dirs[dir]; ok {
			return t
		}
		t := tree.Root(path.Base(dir) + "/")
		branch(path.Dir(dir)).Child(t)
		dirs[dir] = t
		return t
	}

	for _, f := range files {
		rel := strings.TrimPrefix(f.Rel, "./")
		branch(path.Dir(rel)).Child(path.Base(rel))
	}
	return root
}
