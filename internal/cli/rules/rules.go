// Package rules implements the crules commands that deploy and inspect rule
// files.
package rules

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ryantking/crules/internal/config"
	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/git"
	"github.com/ryantking/crules/internal/project"
	"github.com/ryantking/crules/internal/report"
	"github.com/ryantking/crules/internal/ruleset"
	"github.com/ryantking/crules/internal/templates"
)

// Globals holds the persistent flags shared by every rule command.
type Globals struct {
	ConfigPath   string
	RulesDir     string
	TemplatesDir string
}

// Workspace is everything a command needs to act on one project.
type Workspace struct {
	Config *config.Config
	// Root is the located project root.
	Root string
	// Project is rooted at Root.
	Project billy.Filesystem
	// RuleSets is nil unless the workspace came from [Globals.TemplateWorkspace].
	RuleSets ruleset.Provider
	Engine   *deploy.Engine
}

// Workspace loads the configuration, applies flag overrides, and locates the
// project containing the working directory. Templates are not resolved, so
// commands that only inspect deployed rules work without them; see
// [Globals.TemplateWorkspace].
func (g *Globals) Workspace(out io.Writer) (*Workspace, error) {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	if g.RulesDir != "" {
		cfg.RulesDir = g.RulesDir
	}
	if g.TemplatesDir != "" {
		cfg.TemplatesDir = g.TemplatesDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	root := project.NewLocator(cfg.Markers).Locate(wd)
	if containsPath(cfg.ResolveRulesDir(root), root) {
		return nil, fmt.Errorf("rules_dir %q must not contain the project root %s", cfg.RulesDir, root)
	}

	projectFS := osfs.New(root)
	target, rulesDir := projectFS, cfg.RulesDir
	if filepath.IsAbs(rulesDir) {
		rulesDir = filepath.Clean(rulesDir)
		target = osfs.New(filepath.Dir(rulesDir))
		rulesDir = filepath.Base(rulesDir)
	}

	slog.Debug("workspace resolved",
		slog.String("root", root),
		slog.String("rules_dir", cfg.ResolveRulesDir(root)),
		slog.String("templates_dir", cfg.TemplatesDir),
	)

	return &Workspace{
		Config:  cfg,
		Root:    root,
		Project: projectFS,
		Engine:  deploy.New(cfg, nil, target, rulesDir, out),
	}, nil
}

// TemplateWorkspace is [Globals.Workspace] with the templates source resolved.
func (g *Globals) TemplateWorkspace(out io.Writer) (*Workspace, error) {
	ws, err := g.Workspace(out)
	if err != nil {
		return nil, err
	}

	tmpl, err := templateFS(ws.Config.TemplatesDir)
	if err != nil {
		return nil, err
	}
	ws.Engine.Templates = tmpl
	ws.RuleSets = ruleset.DirProvider{
		FS:              tmpl,
		DescriptionFile: ws.Config.DescriptionFile,
	}
	return ws, nil
}

// containsPath reports whether dir is p or one of its ancestors.
func containsPath(dir, p string) bool {
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	if real, err := filepath.EvalSymlinks(p); err == nil {
		p = real
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// templateFS returns the bundled templates, or dir when one is configured.
func templateFS(dir string) (fs.FS, error) {
	if dir == "" {
		return templates.FS(), nil
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf(`templates directory not found: %s

To fix this:
  - Check the --templates-dir flag or templates_dir in the config file
  - Or unset it to use the bundled templates`, dir)
	}
	return os.DirFS(dir), nil
}

// RulesDirName returns the rules directory as shown to the user.
func (w *Workspace) RulesDirName() string {
	if filepath.IsAbs(w.Config.RulesDir) {
		return w.Config.RulesDir
	}
	return w.Engine.RulesDir
}

// WarnIfIgnored prints a warning when git ignores the rules directory.
func (w *Workspace) WarnIfIgnored(p *report.Printer) {
	if filepath.IsAbs(w.Config.RulesDir) {
		return
	}

	ignored, err := git.IsIgnored(w.Project, filepath.ToSlash(w.Engine.RulesDir), true)
	if errors.Is(err, git.ErrNotInGitRepo) {
		return
	}
	if err != nil {
		slog.Debug("check gitignore", slog.Any("err", err))
		return
	}
	if ignored {
		p.Warn("%s is ignored by git, rules will not be committed", w.Engine.RulesDir)
	}
}

// resolveRuleSet picks the rule-set named by the --rule-set or --framework
// flags, falling back to the configured default, and checks it exists.
func (w *Workspace) resolveRuleSet(ruleSet, framework string) (ruleset.RuleSet, error) {
	name := ruleSet
	if name == "" {
		name = framework
	}
	if name == "" {
		name = w.Config.DefaultRuleSet
	}
	return ruleset.Resolve(w.RuleSets, name)
}

func notInitialized(err error) error {
	return fmt.Errorf(`%w

To fix this:
  - Run 'crules init' to deploy the default rules
  - Or check the --rules-dir flag and rules_dir in the config file`, err)
}
