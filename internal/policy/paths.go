package policy

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IsProductionPath reports whether a path falls under a configured
// production directory and is not rescued by a safe directory entry.
//
// Matching is a plain textual prefix test on the normalized path: an
// entry "/etc/nginx" also matches "/etc/nginx-test". That bias toward
// over-blocking is intentional; a missed production path is worse than
// an extra prompt.
func (e *Engine) IsProductionPath(path string) bool {
	norm := e.normalizePath(path)

	for _, dir := range e.cfg.Directories {
		if !strings.HasPrefix(norm, dir) {
			continue
		}
		for _, safe := range e.cfg.SafeDirectories {
			if strings.HasPrefix(norm, safe) {
				return false
			}
		}
		return true
	}
	return false
}

// checkFileWrite decides a Write/Edit tool call for one file path.
func (e *Engine) checkFileWrite(path string) Verdict {
	norm := e.normalizePath(path)

	for _, pattern := range e.cfg.ProtectedPatterns {
		ok, err := doublestar.Match(pattern, norm)
		if err != nil {
			continue
		}
		if ok {
			return block(
				fmt.Sprintf("writing to protected path %s (pattern %s)", norm, pattern),
				"edit a copy outside the protected location instead",
			)
		}
	}

	if e.IsProductionPath(path) {
		return block(
			fmt.Sprintf("writing to production directory: %s", norm),
			"make changes in a development checkout and deploy through your usual pipeline",
		)
	}
	return allow()
}

// normalizePath resolves a path to an absolute, symlink-free form.
// Paths that do not exist yet (a new file about to be written) fall
// back to the syntactic absolute path.
func (e *Engine) normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.workDir, path)
	}
	path = filepath.Clean(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
