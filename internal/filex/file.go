// Package filex contains filesystem helpers for local data directories.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates base/name (and parents) with owner-only permissions and
// returns its path. An empty name ensures base itself.
func EnsureDir(base, name string) (string, error) {
	dir := filepath.Join(base, name)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
