// Package deploy copies rule templates into a project's rules directory and
// inspects the rules already deployed there.
package deploy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ryantking/crules/internal/config"
	"github.com/ryantking/crules/internal/report"
)

var (
	// ErrRuleSetMissing is returned when a rule-set has no directory in the
	// templates source.
	ErrRuleSetMissing = errors.New("rule-set directory not found")
	// ErrTemplateMissing is returned when the single-rule template is absent.
	ErrTemplateMissing = errors.New("rule template not found")
	// ErrTargetExists is returned by [Engine.AddRule] when the rule exists and
	// force is not set.
	ErrTargetExists = errors.New("rule already exists")
	// ErrInvalidRuleName is returned for rule names that cannot name a file.
	ErrInvalidRuleName = errors.New("invalid rule name")
	// ErrRulesDirMissing is returned when the rules directory does not exist.
	ErrRulesDirMissing = errors.New("rules directory not found")
	// ErrRuleNotFound is returned when no deployed rule has the given name.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrUnsafeClean is returned when a clean would remove the root of Target
	// or a directory outside it.
	ErrUnsafeClean = errors.New("refusing to clean rules directory")
)

// Engine copies templates from Templates into RulesDir on Target.
type Engine struct {
	// Templates holds one directory per rule-set plus the single-rule template.
	Templates fs.FS
	// Target is rooted at the project root.
	Target billy.Filesystem
	// RulesDir is relative to the root of Target.
	RulesDir string

	SourceExt       string
	TargetExt       string
	DescriptionFile string

	// Out receives status lines. Nil discards them.
	Out io.Writer
}

// New returns an [Engine] using the naming settings of cfg.
func New(cfg *config.Config, templates fs.FS, target billy.Filesystem, rulesDir string, out io.Writer) *Engine {
	return &Engine{
		Templates:       templates,
		Target:          target,
		RulesDir:        rulesDir,
		SourceExt:       cfg.SourceExt,
		TargetExt:       cfg.TargetExt,
		DescriptionFile: cfg.DescriptionFile,
		Out:             out,
	}
}

// Template is one file of a rule-set.
type Template struct {
	Source string // Path inside the templates FS.
	Rel    string // Path relative to the rule-set directory.
}

// Options control [Engine.CopyRuleSet].
type Options struct {
	// Force overwrites existing target files instead of skipping them.
	Force bool
	// Clean removes the whole rules directory before copying.
	Clean bool
	// DryRun reports every action without touching the target.
	DryRun bool
}

// Summary counts the actions taken by a copy.
type Summary struct {
	Created     int
	Overwritten int
	Skipped     int
	Unchanged   int
}

// Written returns the number of files created or overwritten.
func (s Summary) Written() int {
	return s.Created + s.Overwritten
}

// Files returns the template files of rule-set name, sorted by path.
// Hidden entries and the description file are excluded at every level.
func (e *Engine) Files(name string) ([]Template, error) {
	info, err := fs.Stat(e.Templates, name)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRuleSetMissing, name)
	}

	var out []Template
	err = fs.WalkDir(e.Templates, name, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == name {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() == e.DescriptionFile || path.Ext(d.Name()) != e.SourceExt {
			return nil
		}
		out = append(out, Template{Source: p, Rel: strings.TrimPrefix(p, name+"/")})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rule-set %s: %w", name, err)
	}
	return out, nil
}

// TargetPath returns the path on Target that template rel is copied to.
func (e *Engine) TargetPath(rel string) string {
	rel = strings.TrimSuffix(rel, e.SourceExt) + e.TargetExt
	return filepath.Join(e.RulesDir, filepath.FromSlash(rel))
}

// CopyRuleSet copies every template of rule-set name into the rules
// directory. Existing files are skipped unless opts.Force is set. Files
// already written stay on disk when a later file fails.
func (e *Engine) CopyRuleSet(name string, opts Options) (Summary, error) {
	var sum Summary

	templates, err := e.Files(name)
	if err != nil {
		return sum, err
	}

	out := e.printer()
	if opts.Clean {
		if !e.cleanable() {
			return sum, fmt.Errorf("%w: %q is not below the project root", ErrUnsafeClean, e.RulesDir)
		}
		if opts.DryRun {
			out.Note("Would remove %s", e.RulesDir)
		} else if err := util.RemoveAll(e.Target, e.RulesDir); err != nil {
			return sum, fmt.Errorf("failed to remove %s: %w", e.RulesDir, err)
		}
	}

	if !opts.DryRun {
		if err := e.Target.MkdirAll(e.RulesDir, 0755); err != nil { //nolint:gosec // Rules directories need to be readable
			return sum, fmt.Errorf("failed to create %s: %w", e.RulesDir, err)
		}
	}

	for _, t := range templates {
		status, err := e.install(t, opts, out)
		if err != nil {
			return sum, err
		}
		switch status {
		case report.Created:
			sum.Created++
		case report.Overwritten:
			sum.Overwritten++
		case report.Skipped:
			sum.Skipped++
		case report.Unchanged:
			sum.Unchanged++
		}
	}

	return sum, nil
}

func (e *Engine) cleanable() bool {
	clean := filepath.Clean(e.RulesDir)
	return clean != "." && clean != ".." && !filepath.IsAbs(clean) &&
		!strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func (e *Engine) install(t Template, opts Options, out *report.Printer) (string, error) {
	dest := e.TargetPath(t.Rel)

	data, err := fs.ReadFile(e.Templates, t.Source)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", t.Source, err)
	}

	// A clean dry run reports against the emptied directory.
	current, exists, err := e.read(dest)
	if err != nil {
		return "", err
	}
	if opts.Clean && opts.DryRun {
		exists = false
	}

	if exists && !opts.Force {
		out.Warn("%s (skipped, already exists, use --force to overwrite)", dest)
		return report.Skipped, nil
	}
	if exists && string(current) == string(data) {
		out.Item(dest, report.Unchanged)
		return report.Unchanged, nil
	}

	status := report.Created
	if exists {
		status = report.Overwritten
	}
	if opts.DryRun {
		out.Item(dest, status, "dry-run")
		return status, nil
	}

	if err := e.write(dest, data); err != nil {
		return "", err
	}
	out.Item(dest, status)
	return status, nil
}

// read returns the content of a target file and whether it exists.
func (e *Engine) read(p string) ([]byte, bool, error) {
	info, err := e.Target.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return nil, true, fmt.Errorf("%s is a directory, remove it to deploy the rule", p)
	}

	data, err := util.ReadFile(e.Target, p)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, true, nil
}

func (e *Engine) write(p string, data []byte) error {
	if err := e.Target.MkdirAll(filepath.Dir(p), 0755); err != nil { //nolint:gosec // Rules directories need to be readable
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
	}
	if err := util.WriteFile(e.Target, p, data, 0644); err != nil { //nolint:gosec // Rule files need to be readable
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}

func (e *Engine) printer() *report.Printer {
	if e.Out == nil {
		return report.New(io.Discard)
	}
	return report.New(e.Out)
}
