package ruleset

import (
	"fmt"
	"io"
	"strings"
)

// UnknownError is returned for a rule-set name that is not available.
type UnknownError struct {
	Name        string
	Available   []RuleSet
	Suggestions []string
}

func (e *UnknownError) Error() string {
	var b strings.Builder

	name := e.Name
	if name == "" {
		name = "(empty)"
	}
	fmt.Fprintf(&b, "unknown rule-set %q", name)

	if len(e.Available) == 0 {
		b.WriteString("\n\nNo rule-sets are available in the templates directory.")
		return b.String()
	}

	b.WriteString("\n\nAvailable rule-sets:\n")
	_ = Fprint(&b, e.Available)

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\nDid you mean: %s?", strings.Join(e.Suggestions, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// Fprint writes one aligned "name  description" line per rule-set.
func Fprint(w io.Writer, sets []RuleSet) error {
	width := 0
	for _, s := range sets {
		width = max(width, len(s.Name))
	}
	for _, s := range sets {
		if _, err := fmt.Fprintf(w, "  %-*s  %s\n", width, s.Name, s.Description); err != nil {
			return fmt.Errorf("write rule-sets: %w", err)
		}
	}
	return nil
}
