package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SplitPath splits a path into directory, stem and extension components.
// The stem carries the file name without its extension.
func SplitPath(path string) (dir, stem, ext string) {
	dir = filepath.Dir(path)
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	return dir, stem, ext
}

// IsSubpath checks if child is a subpath of parent
func IsSubpath(parent, child string) bool {
	parent = NormalizePath(parent)
	child = NormalizePath(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(rel, "..") && rel != "."
}

// NormalizePath normalizes a file path for cross-platform comparisons.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// CopyFileAttributes copies file attributes from source to destination
func CopyFileAttributes(srcPath, dstPath string, preservePerms, preserveTimes bool) error {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("failed to stat source %s: %w", srcPath, err)
	}

	if preservePerms {
		if err := os.Chmod(dstPath, srcInfo.Mode()); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", dstPath, err)
		}
	}

	if preserveTimes {
		if err := os.Chtimes(dstPath, time.Now(), srcInfo.ModTime()); err != nil {
			return fmt.Errorf("failed to set times on %s: %w", dstPath, err)
		}
	}

	return nil
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	return info.Size(), nil
}
