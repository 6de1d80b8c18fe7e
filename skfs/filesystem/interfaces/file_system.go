package interfaces

import (
	"context"

	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/types"
)

// FileOperations defines the primitive file and directory operations every
// composite operation is built on. Implementations return plain errors; the
// fail-soft conversion happens at the manager boundary.
type FileOperations interface {
	// Directory operations
	CreateDirectory(ctx context.Context, path string) error
	CopyDirectory(ctx context.Context, srcPath, dstPath string, opts options.CopyOptions) error
	MoveDirectory(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) error
	DeleteDirectory(ctx context.Context, path string, opts options.DeleteOptions) error

	// File operations
	CopyFile(ctx context.Context, srcPath, dstPath string, opts options.CopyOptions) error
	MoveFile(ctx context.Context, srcPath, dstPath string, opts options.MoveOptions) error
	DeleteFile(ctx context.Context, path string, opts options.DeleteOptions) error

	// Enumeration and inspection
	ListFiles(ctx context.Context, folder string, opts options.ListOptions) ([]types.FileEntry, error)
	GetFileInfo(path string) (*types.FileEntry, error)
}

// BackupService defines timestamped backup operations
type BackupService interface {
	BackupFile(ctx context.Context, path string, opts options.BackupOptions) (*types.BackupInfo, error)
}

// OrganizationService defines spreadsheet bucketing operations
type OrganizationService interface {
	OrganizeFiles(ctx context.Context, sourceDir string, opts options.OrganizeOptions) (*types.OrganizeResult, error)
	DetermineBucket(entry types.FileEntry, criterion options.Criterion) string
}
