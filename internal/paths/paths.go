// Package paths canonicalizes script file paths. Documents are keyed by
// project-relative forward-slash paths so indexes and SCIP output stay
// stable across machines and platforms.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts a path to its project-relative canonical form:
// symlinks resolved, relative to the project root, forward slashes.
func Canonicalize(path string, projectRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// Deleted files still need a canonical form for invalidation.
		if os.IsNotExist(err) {
			resolved = path
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = projectRoot
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// IsWithinProject reports whether a path falls under the project root.
// Watcher events for files outside every source root are dropped.
func IsWithinProject(path string, projectRoot string) bool {
	canonical, err := Canonicalize(path, projectRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize converts a relative path to forward slashes without touching
// the filesystem.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Join resolves a canonical project-relative path back to an OS path.
func Join(projectRoot string, canonical string) string {
	parts := strings.Split(Normalize(canonical), "/")
	return filepath.Join(append([]string{projectRoot}, parts...)...)
}
