// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectDir is the per-project directory holding arc's config.
const ProjectDir = ".arc"

// FindProjectConfig looks for ProjectDir/name in start and each of its
// parents, nearest first, and returns the first one found or "".
//
// A ProjectDir may contain a "redirect" file naming another directory
// (relative to ProjectDir) to use instead. Git worktrees use this to share
// the main worktree's config.
func FindProjectConfig(start, name string) string {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}

	for {
		projectDir := followRedirect(filepath.Join(dir, ProjectDir))
		candidate := filepath.Join(projectDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// followRedirect checks for a redirect file and follows it if present.
func followRedirect(projectDir string) string {
	content, err := os.ReadFile(filepath.Join(projectDir, "redirect")) //nolint:gosec // redirect path is within the project dir
	if err != nil {
		return projectDir
	}

	target := strings.TrimSpace(string(content))
	if target == "" {
		return projectDir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(projectDir, target))
}
