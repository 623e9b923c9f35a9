// Package templates provides the rule-set templates bundled with crules.
package templates

import (
	"embed"
	"io/fs"
)

// bundle holds one directory per rule-set plus the single-rule template used
// by "crules add". Subdirectory README.md files describe each rule-set.
//
//go:embed all:templates
var bundle embed.FS

// FS returns the bundled templates root.
func FS() fs.FS {
	sub, err := fs.Sub(bundle, "templates")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}
