package deploy

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ryantking/crules/internal/report"
)

// MaxRuleNameLength is the longest rule name accepted by [NormalizeRuleName].
const MaxRuleNameLength = 64

// NormalizeRuleName validates a rule name given on the command line and
// strips a trailing source or target extension.
func (e *Engine) NormalizeRuleName(name string) (string, error) {
	name = e.trimExt(name)

	switch {
	case name == "":
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidRuleName)
	case len(name) > MaxRuleNameLength:
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidRuleName, name, MaxRuleNameLength)
	case strings.ContainsAny(name, `/\`):
		return "", fmt.Errorf("%w: %q cannot contain path separators", ErrInvalidRuleName, name)
	case strings.Contains(name, ".."):
		return "", fmt.Errorf("%w: %q cannot contain '..'", ErrInvalidRuleName, name)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q cannot start with '.'", ErrInvalidRuleName, name)
	}
	return name, nil
}

// trimExt trims space and one trailing target or source extension from a
// rule name.
func (e *Engine) trimExt(name string) string {
	name = strings.TrimSpace(name)
	for _, ext := range []string{e.TargetExt, e.SourceExt} {
		if ext != "" && strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// RulePath returns the path of deployed rule name on Target.
func (e *Engine) RulePath(name string) string {
	return filepath.Join(e.RulesDir, name+e.TargetExt)
}

// AddRule copies the template at templatePath to a new rule called name and
// returns the path written. Unlike [Engine.CopyRuleSet], an existing rule is
// an error unless force is set.
func (e *Engine) AddRule(name, templatePath string, force bool) (string, error) {
	name, err := e.NormalizeRuleName(name)
	if err != nil {
		return "", err
	}

	data, err := fs.ReadFile(e.Templates, templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTemplateMissing, templatePath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	dest := e.RulePath(name)
	_, exists, err := e.read(dest)
	if err != nil {
		return "", err
	}
	if exists && !force {
		return "", fmt.Errorf("%w: %s\n\nTo overwrite it, run again with --force", ErrTargetExists, dest)
	}

	if err := e.write(dest, data); err != nil {
		return "", err
	}

	status := report.Created
	if exists {
		status = report.Overwritten
	}
	e.printer().Item(dest, status)
	return dest, nil
}
