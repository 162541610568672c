package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidateRelPath rejects paths that are empty, absolute, or that climb
// out of the directory they are joined to.
func ValidateRelPath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("path contains null byte")
	}
	p = filepath.ToSlash(p)
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return fmt.Errorf("absolute path not allowed: %s", p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return fmt.Errorf("path resolves to current directory")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf(
			"path escapes base directory: %s", p,
		)
	}
	return nil
}

func CleanRelPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	return p
}

// RelSlash returns full relative to base using forward slashes
// regardless of the host separator.
func RelSlash(base, full string) (string, error) {
	rel, err := filepath.Rel(base, full)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func IsWithinDir(dir, full string) bool {
	rel, err := RelSlash(dir, full)
	if err != nil {
		return false
	}
	return rel != ".." &&
		!strings.HasPrefix(rel, "../") &&
		!filepath.IsAbs(rel)
}
