// Package pathutil resolves file paths to the canonical absolute form
// used as database keys and location prefixes.
package pathutil

import "path/filepath"

// Resolve returns the canonical absolute path: symlinks resolved and
// "."/".." elements eliminated. When a component does not exist (so
// symlinks cannot be followed) the cleaned absolute path is returned
// instead; resolution never fails outright.
func Resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}
