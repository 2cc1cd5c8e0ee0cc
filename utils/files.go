package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// FriendlyFileName shortens paths below the working directory for log output.
func FriendlyFileName(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
