package fileops

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/spreadkit/sheetkeeper/skfs/filesystem/common"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/interfaces"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/types"
)

// FileOps provides the low-level filesystem primitives. Every destination
// directory implied by an operation is created before the data operation, so
// the data operation itself never fails on a missing parent.
type FileOps struct {
	logger *slog.Logger
}

// NewFileOps creates a new file operations instance
func NewFileOps(logger *slog.Logger) *FileOps {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileOps{logger: logger}
}

// CreateDirectory creates a directory and all missing ancestors. Calling it
// on an existing directory is a no-op, not an error.
func (fo *FileOps) CreateDirectory(ctx context.Context, path string) error {
	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// CopyFile copies a single file, overwriting the destination if present.
func (fo *FileOps) CopyFile(ctx context.Context, srcPath, dstPath string, opts options.CopyOptions) error {
	if opts.DryRun {
		fo.logger.Info("Dry run: would copy file", "src", srcPath, "dst", dstPath)
		return nil
	}

	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(srcPath); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	if err := common.ValidatePath(dstPath); err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	if err := common.ValidateFileExists(srcPath); err != nil {
		return err
	}

	if err := fo.performFileCopy(ctx, srcPath, dstPath); err != nil {
		return fmt.Errorf("failed to copy file from %s to %s: %w", srcPath, dstPath, err)
	}

	if opts.PreservePerms || opts.PreserveTimes {
		if err := common.CopyFileAttributes(srcPath, dstPath, opts.PreservePerms, opts.PreserveTimes); err != nil {
			fo.logger.Warn("Failed to copy file attributes", "error", err)
		}
	}

	return nil
}

// MoveFile relocates a single file. An atomic rename is attempted first;
// cross-device moves fall back to copy+delete, where the source is removed
// only after the destination exists in full.
func (fo *FileOps) MoveFile(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) error {
	if opts.DryRun {
		fo.logger.Info("Dry run: would move file", "src", srcPath, "dst", dstPath)
		return nil
	}

	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(srcPath); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	if err := common.ValidatePath(dstPath); err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	if err := common.ValidateFileExists(srcPath); err != nil {
		return err
	}

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(srcPath, dstPath); err != nil {
		if !opts.FallbackToCopy || !isCrossDeviceError(err) {
			return fmt.Errorf("failed to move file: %w", err)
		}

		// Cross-device move - copy then delete
		copyOpts := options.CopyOptions{
			PreservePerms: opts.PreservePerms,
			PreserveTimes: true,
		}
		if err := fo.CopyFile(ctx, srcPath, dstPath, copyOpts); err != nil {
			return fmt.Errorf("failed to copy file during cross-device move: %w", err)
		}
		if err := os.Remove(srcPath); err != nil {
			return fmt.Errorf("failed to remove source file after copy: %w", err)
		}
	}

	return nil
}

// CopyDirectory recursively copies src into dst with merge semantics: files
// at the same relative paths are overwritten, files only present in dst are
// left untouched.
func (fo *FileOps) CopyDirectory(ctx context.Context, srcPath, dstPath string, opts options.CopyOptions) error {
	if opts.DryRun {
		fo.logger.Info("Dry run: would copy directory", "src", srcPath, "dst", dstPath)
		return nil
	}

	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(srcPath); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	if err := common.ValidatePath(dstPath); err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	if err := common.ValidateDirectoryExists(srcPath); err != nil {
		return err
	}

	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("failed to access source directory: %w", err)
	}

	if err := os.MkdirAll(dstPath, srcInfo.Mode()); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return filepath.WalkDir(srcPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcPath, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		dstFilePath := filepath.Join(dstPath, relPath)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("failed to get directory info: %w", err)
			}
			return os.MkdirAll(dstFilePath, info.Mode())
		}

		if err := fo.performFileCopy(ctx, path, dstFilePath); err != nil {
			return err
		}
		if opts.PreservePerms || opts.PreserveTimes {
			if err := common.CopyFileAttributes(path, dstFilePath, opts.PreservePerms, opts.PreserveTimes); err != nil {
				fo.logger.Warn("Failed to copy file attributes", "path", path, "error", err)
			}
		}
		return nil
	})
}

// MoveDirectory relocates a directory tree (rename or copy+delete).
func (fo *FileOps) MoveDirectory(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) error {
	if opts.DryRun {
		fo.logger.Info("Dry run: would move directory", "src", srcPath, "dst", dstPath)
		return nil
	}

	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(srcPath); err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	if err := common.ValidatePath(dstPath); err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	if err := common.ValidateDirectoryExists(srcPath); err != nil {
		return err
	}
	if common.IsSubpath(srcPath, dstPath) {
		return fmt.Errorf("cannot move directory %s into its own subtree %s", srcPath, dstPath)
	}

	parent := filepath.Dir(dstPath)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create destination parent: %w", err)
	}

	if err := os.Rename(srcPath, dstPath); err != nil {
		if !opts.FallbackToCopy || !isCrossDeviceError(err) {
			return fmt.Errorf("failed to move directory: %w", err)
		}

		copyOpts := options.CopyOptions{
			PreservePerms: opts.PreservePerms,
			PreserveTimes: true,
		}
		if err := fo.CopyDirectory(ctx, srcPath, dstPath, copyOpts); err != nil {
			return fmt.Errorf("failed to copy directory during move: %w", err)
		}
		if err := os.RemoveAll(srcPath); err != nil {
			return fmt.Errorf("failed to remove source directory after copy: %w", err)
		}
	}

	return nil
}

// ListFiles enumerates the files directly inside folder (non-recursive,
// directories excluded). When an extension filter is set, names are matched
// case-sensitively against the glob "*<extension>"; dotfiles match the glob
// like any other name unless ExcludeHidden is set.
func (fo *FileOps) ListFiles(ctx context.Context, folder string, opts options.ListOptions) ([]types.FileEntry, error) {
	if err := common.ValidateContextCancellation(ctx); err != nil {
		return nil, err
	}
	if err := common.ValidatePath(folder); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	dirEntries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", folder, err)
	}

	pattern := ""
	if opts.Extension != "" {
		pattern = "*" + opts.Extension
	}

	entries := make([]types.FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if opts.ExcludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if pattern != "" {
			matched, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("bad extension pattern %q: %w", pattern, err)
			}
			if !matched {
				continue
			}
		}

		info, err := de.Info()
		if err != nil {
			// Entry disappeared between ReadDir and stat; skip it.
			fo.logger.Warn("Failed to stat directory entry", "path", filepath.Join(folder, name), "error", err)
			continue
		}

		entries = append(entries, types.FileEntry{
			Path:       filepath.Join(folder, name),
			Name:       name,
			Extension:  filepath.Ext(name),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// DeleteFile deletes a single file
func (fo *FileOps) DeleteFile(ctx context.Context, path string, opts options.DeleteOptions) error {
	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if err := common.ValidateFileExists(path); err != nil {
		return err
	}

	if opts.DryRun {
		fo.logger.Info("Dry run: would delete file", "path", path)
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}

	return nil
}

// DeleteDirectory deletes a directory, recursively when asked; a
// non-recursive delete requires the directory to be empty.
func (fo *FileOps) DeleteDirectory(ctx context.Context, path string, opts options.DeleteOptions) error {
	if err := common.ValidateContextCancellation(ctx); err != nil {
		return err
	}
	if err := common.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if err := common.ValidateDirectoryExists(path); err != nil {
		return err
	}

	if opts.DryRun {
		fo.logger.Info("Dry run: would delete directory", "path", path, "recursive", opts.Recursive)
		return nil
	}

	if opts.Recursive {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete directory recursively %s: %w", path, err)
		}
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", path, err)
	}

	return nil
}

// GetFileInfo returns a metadata snapshot for a single file.
func (fo *FileOps) GetFileInfo(path string) (*types.FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	name := filepath.Base(path)
	return &types.FileEntry{
		Path:       path,
		Name:       name,
		Extension:  filepath.Ext(name),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Private helper methods

func (fo *FileOps) performFileCopy(ctx context.Context, srcPath, dstPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := fo.copyContent(ctx, dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return nil
}

func (fo *FileOps) copyContent(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buffer := make([]byte, 32*1024) // 32KB buffer
	var totalBytes int64

	for {
		select {
		case <-ctx.Done():
			return totalBytes, ctx.Err()
		default:
		}

		n, readErr := src.Read(buffer)
		if n > 0 {
			if _, writeErr := dst.Write(buffer[:n]); writeErr != nil {
				return totalBytes, writeErr
			}
			totalBytes += int64(n)
		}

		if readErr != nil {
			if readErr == io.EOF {
				return totalBytes, nil
			}
			return totalBytes, readErr
		}
	}
}

func isCrossDeviceError(err error) bool {
	if linkErr, ok := err.(*os.LinkError); ok {
		return linkErr.Err == syscall.EXDEV
	}
	return false
}

// Ensure FileOps implements the interface
var _ interfaces.FileOperations = (*FileOps)(nil)
