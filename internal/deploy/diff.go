package deploy

import (
	"fmt"
	"io/fs"

	"github.com/aymanbagabas/go-udiff"

	"github.com/ryantking/crules/internal/report"
)

// FileDiff compares one template with its deployed copy.
type FileDiff struct {
	Template Template
	Target   string
	// Status is one of [report.Unchanged], [report.Changed] or [report.Missing].
	Status string
	// Unified holds the diff from the deployed file to the template when
	// Status is [report.Changed].
	Unified string
}

// Diff compares every template of rule-set name with the deployed files.
func (e *Engine) Diff(name string) ([]FileDiff, error) {
	templates, err := e.Files(name)
	if err != nil {
		return nil, err
	}

	diffs := make([]FileDiff, 0, len(templates))
	for _, t := range templates {
		want, err := fs.ReadFile(e.Templates, t.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", t.Source, err)
		}

		d := FileDiff{Template: t, Target: e.TargetPath(t.Rel)}
		got, exists, err := e.read(d.Target)
		if err != nil {
			return nil, err
		}

		switch {
		case !exists:
			d.Status = report.Missing
		case string(got) == string(want):
			d.Status = report.Unchanged
		default:
			d.Status = report.Changed
			d.Unified = udiff.Unified(d.Target, t.Source, string(got), string(want))
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}
