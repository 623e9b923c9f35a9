package project

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the expected filesystem kind of a marker.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Marker is a filesystem entry whose presence identifies a project root.
type Marker struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// Dir returns a directory marker.
func Dir(name string) Marker { return Marker{Name: name, Kind: KindDir} }

// File returns a file marker.
func File(name string) Marker { return Marker{Name: name, Kind: KindFile} }

// Validate checks that m names a single entry with a known kind.
func (m Marker) Validate() error {
	if m.Name == "" {
		return errors.New("marker name must not be empty")
	}
	if strings.ContainsAny(m.Name, `/\`) || m.Name == "." || m.Name == ".." {
		return fmt.Errorf("marker %q must be a single path element", m.Name)
	}
	switch m.Kind {
	case KindFile, KindDir:
		return nil
	}
	return fmt.Errorf("marker %q has unknown kind %q (want %q or %q)", m.Name, m.Kind, KindFile, KindDir)
}

func (m Marker) String() string {
	if m.Kind == KindDir {
		return m.Name + "/"
	}
	return m.Name
}

// DefaultMarkers returns version control directories, build and package
// manifests, and editor configuration directories.
func DefaultMarkers() []Marker {
	return []Marker{
		Dir(".git"),
		Dir(".hg"),
		Dir(".svn"),
		Dir(".cursor"),
		Dir(".vscode"),
		Dir(".idea"),
		File("go.mod"),
		File("package.json"),
		File("pyproject.toml"),
		File("setup.py"),
		File("Cargo.toml"),
		File("pubspec.yaml"),
		File("pom.xml"),
		File("build.gradle"),
		File("Makefile"),
	}
}
