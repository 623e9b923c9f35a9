// Package project locates the root directory of the project crules works on.
package project

import (
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Locator finds the nearest ancestor directory that holds a marker.
type Locator struct {
	FS      billy.Basic
	Markers []Marker
	Logger  *slog.Logger
}

// NewLocator returns a [Locator] over the host filesystem.
func NewLocator(markers []Marker) *Locator {
	return &Locator{
		FS:      osfs.Default,
		Markers: markers,
	}
}

// Locate walks from start towards the filesystem root and returns the first
// directory containing any marker. When no directory matches, start is
// returned unchanged. Locate never fails and never writes.
func (l *Locator) Locate(start string) string {
	dir := filepath.Clean(start)
	for {
		if m, ok := l.match(dir); ok {
			l.logger().Info("project root found",
				slog.String("root", dir),
				slog.String("marker", m.String()),
			)
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	l.logger().Info("no project marker found, using working directory",
		slog.String("dir", start),
	)
	return start
}

// match reports the first marker present in dir.
func (l *Locator) match(dir string) (Marker, bool) {
	for _, m := range l.Markers {
		info, err := l.FS.Stat(filepath.Join(dir, m.Name))
		if err != nil {
			continue
		}
		if info.IsDir() == (m.Kind == KindDir) {
			return m, true
		}
	}
	return Marker{}, false
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
