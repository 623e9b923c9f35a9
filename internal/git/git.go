// Package git answers questions about the git repository a project lives in.
package git

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IsIgnored reports whether rel, a slash separated path relative to the root
// of fs, is excluded by the repository's .gitignore files or
// .git/info/exclude. A path is ignored when it or any of its parents match.
func IsIgnored(fs billy.Filesystem, rel string, isDir bool) (bool, error) {
	if !IsRepo(fs) {
		return false, ErrNotInGitRepo
	}

	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return false, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}
	if len(patterns) == 0 {
		return false, nil
	}

	parts := splitPath(rel)
	if len(parts) == 0 {
		return false, nil
	}

	matcher := gitignore.NewMatcher(patterns)
	for i := 1; i <= len(parts); i++ {
		dir := i < len(parts) || isDir
		if matcher.Match(parts[:i], dir) {
			return true, nil
		}
	}
	return false, nil
}

func splitPath(rel string) []string {
	rel = path.Clean(strings.ReplaceAll(rel, "\\", "/"))
	if rel == "." || rel == "/" {
		return nil
	}
	return strings.Split(strings.Trim(rel, "/"), "/")
}
