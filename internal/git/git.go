// Package git shells out to git for the two facts the pipeline wants: where
// the repository root is, and which files changed since a ref.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FindRepoRoot walks up from start looking for a .git directory. When none is
// found, start itself is returned.
func FindRepoRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for cur := dir; ; {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// ChangedFiles returns the repo-relative paths that differ from baseRef,
// including uncommitted changes.
func ChangedFiles(root, baseRef string) ([]string, error) {
	cmd := exec.Command("git", "-C", root, "diff", "--name-only", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
