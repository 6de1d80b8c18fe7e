package common

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Common error types used across filesystem packages. The not-exist and
// invalid sentinels wrap their io/fs counterparts so errors.Is keeps working
// for callers classifying failures.
var (
	ErrPathEmpty      = fmt.Errorf("path cannot be empty: %w", fs.ErrInvalid)
	ErrPathTooLong    = fmt.Errorf("path too long (max 4096 characters): %w", fs.ErrInvalid)
	ErrPathInvalid    = fmt.Errorf("path contains invalid characters: %w", fs.ErrInvalid)
	ErrSourceNotExist = fmt.Errorf("source does not exist: %w", fs.ErrNotExist)
	ErrNotDirectory   = fmt.Errorf("path is not a directory: %w", fs.ErrInvalid)
	ErrNotFile        = fmt.Errorf("path is not a regular file: %w", fs.ErrInvalid)
)

// ValidatePath validates that a path is safe to hand to the OS.
func ValidatePath(path string) error {
	if path == "" {
		return ErrPathEmpty
	}
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	if len(path) > 4096 {
		return ErrPathTooLong
	}
	return nil
}

// ValidateContextCancellation checks if context is cancelled and returns appropriate error
func ValidateContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ValidateFileExists validates that a path exists and is a regular file.
func ValidateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotExist, path)
		}
		return fmt.Errorf("failed to access file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}
	return nil
}

// ValidateDirectoryExists validates that a path exists and is a directory.
func ValidateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotExist, path)
		}
		return fmt.Errorf("failed to access directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}
