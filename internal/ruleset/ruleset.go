// Package ruleset discovers the rule-sets available for deployment and
// validates rule-set names against them.
package ruleset

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// RuleSet is a named bundle of template files.
type RuleSet struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Provider supplies the available rule-sets, sorted by name.
type Provider interface {
	List() ([]RuleSet, error)
}

// Static is a fixed name to description table.
type Static map[string]string

func (s Static) List() ([]RuleSet, error) {
	sets := make([]RuleSet, 0, len(s))
	for name, desc := range s {
		sets = append(sets, RuleSet{Name: name, Description: desc})
	}
	slices.SortFunc(sets, func(a, b RuleSet) int { return strings.Compare(a.Name, b.Name) })
	return sets, nil
}

// DirProvider treats every visible subdirectory of a templates root as a
// rule-set. The description is the title line of DescriptionFile inside the
// subdirectory, or the subdirectory name when there is none.
type DirProvider struct {
	FS              fs.FS
	DescriptionFile string
}

func (p DirProvider) List() ([]RuleSet, error) {
	entries, err := fs.ReadDir(p.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	var sets []RuleSet
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.IsDir() {
			continue
		}
		sets = append(sets, RuleSet{
			Name:        entry.Name(),
			Description: p.describe(entry.Name()),
		})
	}

	// fs.ReadDir sorts by name, but an fs.FS implementation is free not to.
	slices.SortFunc(sets, func(a, b RuleSet) int { return strings.Compare(a.Name, b.Name) })
	return sets, nil
}

func (p DirProvider) describe(name string) string {
	if p.DescriptionFile == "" {
		return name
	}
	data, err := fs.ReadFile(p.FS, path.Join(name, p.DescriptionFile))
	if err != nil {
		return name
	}
	if title := Title(data); title != "" {
		return title
	}
	return name
}

// Title returns the first non-blank line of a description file with any
// markdown heading marks removed.
func Title(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line != "" {
			return line
		}
	}
	return ""
}

// Validate reports whether name is one of sets.
func Validate(name string, sets []RuleSet) bool {
	return slices.ContainsFunc(sets, func(s RuleSet) bool { return s.Name == name })
}

// Names returns the names of sets in order.
func Names(sets []RuleSet) []string {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.Name
	}
	return names
}

// Suggest returns up to three names from candidates that fuzzily match name,
// best match first.
func Suggest(name string, candidates []string) []string {
	if name == "" {
		return nil
	}

	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// Resolve returns the rule-set called name from p, or an [*UnknownError]
// listing every available rule-set.
func Resolve(p Provider, name string) (RuleSet, error) {
	sets, err := p.List()
	if err != nil {
		return RuleSet{}, err
	}
	for _, s := range sets {
		if s.Name == name {
			return s, nil
		}
	}
	return RuleSet{}, &UnknownError{
		Name:        name,
		Available:   sets,
		Suggestions: Suggest(name, Names(sets)),
	}
}
