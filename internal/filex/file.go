// Package filex holds small filesystem helpers: locating the portal's
// per-user state directory and minting paths for transient downloads.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDir returns the portal's per-user state directory, creating it if
// needed. The location follows the OS convention (os.UserConfigDir), e.g.
// ~/.config/pdfportal on Linux.
func StateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	dir := filepath.Join(base, "pdfportal")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureSubDir creates (if needed) and returns a subdirectory of dir.
func EnsureSubDir(dir, name string) (string, error) {
	sub := filepath.Join(dir, name)
	if err := os.MkdirAll(sub, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", sub, err)
	}
	return sub, nil
}
