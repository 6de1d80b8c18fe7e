package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/spreadkit/sheetkeeper/skfs/filesystem/common"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/interfaces"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/types"
)

// backupTimestampLayout is second resolution; two backups of the same file
// within the same second collide and overwrite one another.
const backupTimestampLayout = "20060102_150405"

// BackupService creates timestamped copies of files in a backup directory.
// No index of backups is kept; the copies themselves are the only record.
type BackupService struct {
	fileOps          interfaces.FileOperations
	defaultBackupDir string
	logger           *slog.Logger
	now              func() time.Time
}

// NewBackupService creates a backup service. defaultBackupDir is used when a
// call does not name an explicit destination.
func NewBackupService(fileOps interfaces.FileOperations, defaultBackupDir string, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{
		fileOps:          fileOps,
		defaultBackupDir: defaultBackupDir,
		logger:           logger,
		now:              time.Now,
	}
}

// BackupFile copies path into the backup directory under the name
// <stem>_backup_<timestamp><ext>, creating the directory first. The
// timestamp is local time at second resolution.
func (bs *BackupService) BackupFile(ctx context.Context, path string, opts options.BackupOptions) (*types.BackupInfo, error) {
	if err := common.ValidateFileExists(path); err != nil {
		return nil, err
	}

	backupDir := opts.BackupDir
	if backupDir == "" {
		backupDir = bs.defaultBackupDir
	}

	_, stem, ext := common.SplitPath(path)
	timestamp := bs.now().Format(backupTimestampLayout)
	backupName := fmt.Sprintf("%s_backup_%s%s", stem, timestamp, ext)
	backupPath := filepath.Join(backupDir, backupName)

	if opts.DryRun {
		bs.logger.Info("Dry run: would back up file", "src", path, "dst", backupPath)
		return &types.BackupInfo{
			ID:         uuid.NewString(),
			SourcePath: path,
			BackupPath: backupPath,
			CreatedAt:  bs.now(),
		}, nil
	}

	if err := bs.fileOps.CreateDirectory(ctx, backupDir); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", backupDir, err)
	}

	copyOpts := options.DefaultCopyOptions()
	if err := bs.fileOps.CopyFile(ctx, path, backupPath, copyOpts); err != nil {
		return nil, fmt.Errorf("failed to back up %s: %w", path, err)
	}

	size, err := common.GetFileSize(backupPath)
	if err != nil {
		bs.logger.Warn("Failed to stat backup file", "path", backupPath, "error", err)
	}

	bs.logger.Info("File backed up", "src", path, "dst", backupPath)

	return &types.BackupInfo{
		ID:         uuid.NewString(),
		SourcePath: path,
		BackupPath: backupPath,
		CreatedAt:  bs.now(),
		Size:       size,
	}, nil
}

// Ensure BackupService implements the interface
var _ interfaces.BackupService = (*BackupService)(nil)
