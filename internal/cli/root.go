// Package cli wires the crules command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/ryantking/crules/internal/cli/rules"
	"github.com/ryantking/crules/internal/log"
)

const (
	cmdName = "crules"
	cmdDesc = "Copy rule templates into a project's rules directory"
)

// RootArgs holds the persistent flags of the root command.
type RootArgs struct {
	rules.Globals

	LogLevel  string
	LogFormat string
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&ra.ConfigPath, "config", "", "Path to the config file (default $XDG_CONFIG_HOME/crules/config.yaml)")
	flags.StringVar(&ra.RulesDir, "rules-dir", "", "Rules directory, relative to the project root (default .cursor/rules)")
	flags.StringVar(&ra.TemplatesDir, "templates-dir", "", "Directory of rule-set templates (default bundled templates)")
	flags.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	flags.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagDirname("templates-dir"))
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	args := &RootArgs{}

	cmd := &cobra.Command{
		Use:   cmdName,
		Short: cmdDesc,
		Long: heredoc.Doc(`
			crules copies predefined rule templates into a project's rules directory
			(.cursor/rules by default), renaming .md templates to .mdc rule files.

			Rule-sets are directories of templates. The bundled set is used unless
			--templates-dir or templates_dir in the config file points elsewhere.
		`),
		Example: heredoc.Doc(`
			# Deploy the default rule-set into the current project
			crules init

			# List the rule-sets that can be deployed
			crules init --list

			# Add an empty rule and check it
			crules add api-style
			crules validate
		`),
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)

	g := &args.Globals
	cmd.AddCommand(
		rules.NewInitCmd(g),
		rules.NewAddCmd(g),
		rules.NewListCmd(g),
		rules.NewShowCmd(g),
		rules.NewRemoveCmd(g),
		rules.NewValidateCmd(g),
		rules.NewDiffCmd(g),
		rules.NewTreeCmd(g),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
