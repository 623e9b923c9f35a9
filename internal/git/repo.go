package git

import (
	"errors"

	"github.com/go-git/go-billy/v5"
)

// ErrNotInGitRepo is returned when the project root has no .git entry.
var ErrNotInGitRepo = errors.New("not in a git repository")

// IsRepo reports whether the root of fs is a git work tree. Both a .git
// directory and the .git file of a linked worktree count.
func IsRepo(fs billy.Basic) bool {
	_, err := fs.Stat(".git")
	return err == nil
}
