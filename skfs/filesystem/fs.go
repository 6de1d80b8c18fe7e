// Package filesystem provides the sheetkeeper file manager: a fail-soft
// facade over filesystem primitives for organizing spreadsheet files and
// project folders. Every public method catches errors at its own boundary,
// logs the offending path plus the underlying error text, and reports the
// outcome through a result value; nothing propagates to the caller.
package filesystem

import (
	"context"
	"log/slog"
	"path/filepath"

	internal "github.com/spreadkit/sheetkeeper/skfs"
	"github.com/spreadkit/sheetkeeper/skfs/config"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/fileops"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/interfaces"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/services"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/types"
)

// Manager owns a base directory and exposes the primitive and composite
// file operations on it. The base directory is created (idempotently) at
// construction; the manager never removes it.
//
// Calls are synchronous and single-threaded. The manager provides no
// locking; concurrent calls on overlapping paths need external
// serialization.
type Manager struct {
	baseDir string
	logger  *slog.Logger

	fileOps      interfaces.FileOperations
	backupSvc    interfaces.BackupService
	organizeSvc  interfaces.OrganizationService
	backupFolder string
}

// New creates a Manager anchored at baseDir, creating the directory and any
// missing ancestors. A nil logger falls back to slog.Default.
func New(baseDir string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ops := fileops.NewFileOps(logger)

	if err := ops.CreateDirectory(context.Background(), baseDir); err != nil {
		return nil, err
	}
	logger.Info("Base folder ready", "path", baseDir)

	backupDirName := config.AppConfig.SheetKeeper.BackupDirName
	if backupDirName == "" {
		backupDirName = internal.DefaultBackupDirName
	}
	backupFolder := filepath.Join(baseDir, backupDirName)

	return &Manager{
		baseDir:      baseDir,
		logger:       logger,
		fileOps:      ops,
		backupSvc:    services.NewBackupService(ops, backupFolder, logger),
		organizeSvc:  services.NewOrganizationService(ops, logger),
		backupFolder: backupFolder,
	}, nil
}

// BaseDir returns the base directory the manager is anchored to.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Primitive operations

// CreateFolder creates path and all missing ancestors. Creating an existing
// folder succeeds.
func (m *Manager) CreateFolder(ctx context.Context, path string) types.OpResult {
	if err := m.fileOps.CreateDirectory(ctx, path); err != nil {
		m.logger.Error("Error creating folder", "path", path, "error", err)
		return types.OpFailed(path, err)
	}
	m.logger.Info("Folder created/verified", "path", path)
	return types.OpOK(path)
}

// CreateProjectStructure creates the named folders under the base
// directory. All folders are attempted; the result reflects the first
// failure when one occurs.
func (m *Manager) CreateProjectStructure(ctx context.Context, folders []string) types.OpResult {
	result := types.OpOK(m.baseDir)
	for _, folder := range folders {
		if res := m.CreateFolder(ctx, filepath.Join(m.baseDir, folder)); !res.OK && result.OK {
			result = res
		}
	}
	return result
}

// CopyFile copies src to dst, creating dst's parent directory first and
// overwriting dst if present. Content, permissions and timestamps are
// copied.
func (m *Manager) CopyFile(ctx context.Context, src, dst string) types.OpResult {
	if err := m.fileOps.CopyFile(ctx, src, dst, options.DefaultCopyOptions()); err != nil {
		m.logger.Error("Error copying file", "src", src, "dst", dst, "error", err)
		return types.OpFailed(src, err)
	}
	m.logger.Info("File copied", "src", src, "dst", dst)
	return types.OpOK(dst)
}

// MoveFile relocates src to dst, creating dst's parent directory first. On
// failure the source file is left intact.
func (m *Manager) MoveFile(ctx context.Context, src, dst string) types.OpResult {
	if err := m.fileOps.MoveFile(ctx, src, dst, options.DefaultMoveOptions()); err != nil {
		m.logger.Error("Error moving file", "src", src, "dst", dst, "error", err)
		return types.OpFailed(src, err)
	}
	m.logger.Info("File moved", "src", src, "dst", dst)
	return types.OpOK(dst)
}

// CopyFolder recursively copies src into dst with merge semantics: matching
// relative paths are overwritten, extra files already in dst are left
// untouched.
func (m *Manager) CopyFolder(ctx context.Context, src, dst string) types.OpResult {
	if err := m.fileOps.CopyDirectory(ctx, src, dst, options.DefaultCopyOptions()); err != nil {
		m.logger.Error("Error copying folder", "src", src, "dst", dst, "error", err)
		return types.OpFailed(src, err)
	}
	m.logger.Info("Folder copied", "src", src, "dst", dst)
	return types.OpOK(dst)
}

// MoveFolder recursively relocates src to dst.
func (m *Manager) MoveFolder(ctx context.Context, src, dst string) types.OpResult {
	if err := m.fileOps.MoveDirectory(ctx, src, dst, options.DefaultMoveOptions()); err != nil {
		m.logger.Error("Error moving folder", "src", src, "dst", dst, "error", err)
		return types.OpFailed(src, err)
	}
	m.logger.Info("Folder moved", "src", src, "dst", dst)
	return types.OpOK(dst)
}

// ListFiles returns the paths of the files directly inside folder,
// optionally filtered by extension (glob "*<extension>", case-sensitive).
// Dotfiles are listed like any other file. Errors yield an empty slice,
// not a failure.
func (m *Manager) ListFiles(ctx context.Context, folder, extension string) []string {
	entries, err := m.fileOps.ListFiles(ctx, folder, options.ListOptions{Extension: extension})
	if err != nil {
		m.logger.Error("Error listing files", "folder", folder, "error", err)
		return []string{}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	m.logger.Info("Listed files", "folder", folder, "count", len(paths))
	return paths
}

// DeleteFile removes a single file.
func (m *Manager) DeleteFile(ctx context.Context, path string) types.OpResult {
	if err := m.fileOps.DeleteFile(ctx, path, options.DefaultDeleteOptions()); err != nil {
		m.logger.Error("Error deleting file", "path", path, "error", err)
		return types.OpFailed(path, err)
	}
	m.logger.Info("File deleted", "path", path)
	return types.OpOK(path)
}

// DeleteFolder removes a folder and its entire contents.
func (m *Manager) DeleteFolder(ctx context.Context, path string) types.OpResult {
	if err := m.fileOps.DeleteDirectory(ctx, path, options.DeleteOptions{Recursive: true}); err != nil {
		m.logger.Error("Error deleting folder", "path", path, "error", err)
		return types.OpFailed(path, err)
	}
	m.logger.Info("Folder deleted", "path", path)
	return types.OpOK(path)
}

// Composite operations

// BackupFile copies path into backupFolder under a timestamped name and
// returns the backup path. An empty backupFolder selects the manager's
// default, <base>/<backupDirName> from the loaded config ("backups" when
// unset). On failure the returned path is empty and the result carries the
// error kind.
func (m *Manager) BackupFile(ctx context.Context, path, backupFolder string) (string, types.OpResult) {
	info, err := m.backupSvc.BackupFile(ctx, path, options.BackupOptions{BackupDir: backupFolder})
	if err != nil {
		m.logger.Error("Error creating backup", "path", path, "error", err)
		return "", types.OpFailed(path, err)
	}
	return info.BackupPath, types.OpOK(info.BackupPath)
}

// Organize buckets the spreadsheet files directly inside sourceFolder into
// subfolders chosen by criterion. Per-file failures are logged and the pass
// continues; the result reports failure when any file failed.
func (m *Manager) Organize(ctx context.Context, sourceFolder string, criterion options.Criterion) types.OpResult {
	result, err := m.OrganizeDetailed(ctx, sourceFolder, criterion)
	if err != nil {
		return types.OpFailed(sourceFolder, err)
	}
	if !result.Success {
		return types.OpResult{OK: false, Kind: result.FailureKind, Path: sourceFolder, Err: result.Error}
	}
	return types.OpOK(sourceFolder)
}

// OrganizeDetailed is Organize with the full per-file result. The error
// return covers enumeration and setup failures only; per-file move failures
// are reported inside the result.
func (m *Manager) OrganizeDetailed(ctx context.Context, sourceFolder string, criterion options.Criterion) (*types.OrganizeResult, error) {
	opts := options.DefaultOrganizeOptions()
	opts.Criterion = criterion

	result, err := m.organizeSvc.OrganizeFiles(ctx, sourceFolder, opts)
	if err != nil {
		m.logger.Error("Error organizing folder", "folder", sourceFolder, "error", err)
		return nil, err
	}
	return result, nil
}

// Service accessor methods

// GetFileOperations returns the primitive operations layer.
func (m *Manager) GetFileOperations() interfaces.FileOperations {
	return m.fileOps
}

// GetBackupService returns the backup service instance.
func (m *Manager) GetBackupService() interfaces.BackupService {
	return m.backupSvc
}

// GetOrganizationService returns the organization service instance.
func (m *Manager) GetOrganizationService() interfaces.OrganizationService {
	return m.organizeSvc
}
