package deploy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"github.com/ryantking/crules/internal/frontmatter"
)

// Rule is a rule file found in the rules directory.
type Rule struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Description string `json:"description,omitempty"`
}

// Deployed returns every rule file under the rules directory, sorted by
// name. Names are slash separated and have no extension. A missing rules
// directory returns [ErrRulesDirMissing].
func (e *Engine) Deployed() ([]Rule, error) {
	if err := e.requireRulesDir(); err != nil {
		return nil, err
	}

	var rules []Rule
	err := util.Walk(e.Target, e.RulesDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != e.RulesDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") || filepath.Ext(p) != e.TargetExt {
			return nil
		}

		rel, err := filepath.Rel(e.RulesDir, p)
		if err != nil {
			return err
		}
		rule := Rule{
			Name: filepath.ToSlash(strings.TrimSuffix(rel, e.TargetExt)),
			Path: p,
			Size: info.Size(),
		}
		if data, err := util.ReadFile(e.Target, p); err == nil {
			if md, err := frontmatter.Parse(data); err == nil {
				rule.Description = md.Description
			}
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Name < rules[j].Name
	})
	return rules, nil
}

// Names returns the names of rules.
func Names(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// ReadRule returns the content and path of deployed rule name.
func (e *Engine) ReadRule(name string) ([]byte, string, error) {
	p, err := e.FindRule(name)
	if err != nil {
		return nil, "", err
	}

	data, err := util.ReadFile(e.Target, p)
	if err != nil {
		return nil, p, fmt.Errorf("failed to read rule file: %w", err)
	}
	return data, p, nil
}

// RemoveRule deletes deployed rule name and returns its path.
func (e *Engine) RemoveRule(name string) (string, error) {
	p, err := e.FindRule(name)
	if err != nil {
		return "", err
	}

	if err := e.Target.Remove(p); err != nil {
		return p, fmt.Errorf("failed to remove rule file: %w", err)
	}
	return p, nil
}

// FindRule returns the path of deployed rule name.
func (e *Engine) FindRule(name string) (string, error) {
	if err := e.requireRulesDir(); err != nil {
		return "", err
	}

	name = e.trimExt(name)
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRuleName, name)
	}

	p := e.RulePath(filepath.FromSlash(name))
	info, err := e.Target.Stat(p)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return p, nil
}

func (e *Engine) requireRulesDir() error {
	info, err := e.Target.Stat(e.RulesDir)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return fmt.Errorf("%w: %s", ErrRulesDirMissing, e.RulesDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", e.RulesDir, err)
	}
	return nil
}
