// Package config defines crules settings and loads them from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ryantking/crules/internal/project"
)

// FileName is the config file looked up under the user config directory.
const FileName = "config.yaml"

// Config holds every value the commands need. Nothing in the tool reads
// package-level settings; each operation receives what it uses from here.
type Config struct {
	// RulesDir is where rule files are deployed. Relative paths are resolved
	// against the project root.
	RulesDir string `yaml:"rules_dir"`
	// TemplatesDir is the templates root holding one subdirectory per
	// rule-set. Empty selects the templates bundled with the binary.
	TemplatesDir string `yaml:"templates_dir"`
	// SourceExt is the extension of template files.
	SourceExt string `yaml:"source_ext"`
	// TargetExt replaces SourceExt on deployed files.
	TargetExt string `yaml:"target_ext"`
	// DescriptionFile holds a rule-set's title and is never deployed.
	DescriptionFile string `yaml:"description_file"`
	// RuleTemplate is the template used by "add", relative to the templates root.
	RuleTemplate string `yaml:"rule_template"`
	// DefaultRuleSet is used by "init" when no rule-set is named.
	DefaultRuleSet string `yaml:"default_rule_set"`
	// Markers identify a project root.
	Markers []project.Marker `yaml:"markers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RulesDir:        filepath.Join(".cursor", "rules"),
		SourceExt:       ".md",
		TargetExt:       ".mdc",
		DescriptionFile: "README.md",
		RuleTemplate:    "rule.md",
		DefaultRuleSet:  "default",
		Markers:         project.DefaultMarkers(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/crules/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "crules", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "crules", FileName), nil
}

// Load reads configuration from path on top of the defaults.
// An explicit path must exist. When path is empty the default location is
// tried and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil //nolint:nilerr // No home directory means no user config.
		}
		path = p
	}

	data, err := os.ReadFile(path) //nolint:gosec // Config path is user supplied.
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.Parse(data); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse overlays YAML data onto c and validates the result.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return c.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.RulesDir == "":
		return errors.New("rules_dir must not be empty")
	case !isSubdir(c.RulesDir):
		return fmt.Errorf("rules_dir %q must name a directory below the project root", c.RulesDir)
	case !isExt(c.SourceExt):
		return fmt.Errorf("source_ext %q must start with a dot", c.SourceExt)
	case !isExt(c.TargetExt):
		return fmt.Errorf("target_ext %q must start with a dot", c.TargetExt)
	case c.DefaultRuleSet == "":
		return errors.New("default_rule_set must not be empty")
	}

	for _, m := range c.Markers {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("markers: %w", err)
		}
	}

	return nil
}

// ResolveRulesDir returns RulesDir as an absolute path under root.
func (c *Config) ResolveRulesDir(root string) string {
	if filepath.IsAbs(c.RulesDir) {
		return filepath.Clean(c.RulesDir)
	}
	return filepath.Join(root, c.RulesDir)
}

// isSubdir reports whether dir names a directory that can be removed without
// taking the project root, a parent of it, or the filesystem root with it.
func isSubdir(dir string) bool {
	clean := filepath.Clean(dir)
	if filepath.IsAbs(clean) {
		return filepath.Dir(clean) != clean
	}
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func isExt(s string) bool {
	return len(s) > 1 && s[0] == '.'
}
